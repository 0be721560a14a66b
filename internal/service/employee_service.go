package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

// CreateEmployeeInput is the DTO for creating an employee together with its login user.
type CreateEmployeeInput struct {
	Email        string          `json:"email" binding:"required,email"`
	Password     string          `json:"password" binding:"required,min=8"`
	FullName     string          `json:"full_name" binding:"required"`
	Role         domain.UserRole `json:"role"`
	EmployeeCode string          `json:"employee_code" binding:"required"`
	Department   string          `json:"department"`
	Position     string          `json:"position"`
	Phone        string          `json:"phone"`
	HireDate     *time.Time      `json:"hire_date"`
}

// UpdateEmployeeInput is the DTO for admin updates of an employee.
type UpdateEmployeeInput struct {
	FullName   *string                `json:"full_name"`
	Department *string                `json:"department"`
	Position   *string                `json:"position"`
	Phone      *string                `json:"phone"`
	HireDate   *time.Time             `json:"hire_date"`
	Status     *domain.EmployeeStatus `json:"status"`
}

// UpdateProfileInput is the DTO for self-service profile edits.
type UpdateProfileInput struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// UpdateSettingsInput is the DTO for self-service settings edits.
type UpdateSettingsInput struct {
	EmailNotifications *bool `json:"email_notifications"`
	CompactLayout      *bool `json:"compact_layout"`
}

// EmployeeService defines employee management and self-service.
type EmployeeService interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	List(ctx context.Context, filter port.EmployeeFilter, offset, limit int) ([]domain.Employee, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Employee, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Employee, error)
	GetSettings(ctx context.Context, employeeID uuid.UUID) (domain.EmployeeSettings, error)
	UpdateSettings(ctx context.Context, employeeID uuid.UUID, input UpdateSettingsInput) (domain.EmployeeSettings, error)
}

type employeeService struct {
	userRepo     port.UserRepository
	employeeRepo port.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService implementation.
func NewEmployeeService(userRepo port.UserRepository, employeeRepo port.EmployeeRepository) EmployeeService {
	return &employeeService{userRepo: userRepo, employeeRepo: employeeRepo}
}

func (s *employeeService) Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.ValidUserRoles[role] {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		ID:           uuid.New(),
		UserID:       user.ID,
		EmployeeCode: strings.TrimSpace(input.EmployeeCode),
		FullName:     input.FullName,
		Email:        email,
		Department:   input.Department,
		Position:     input.Position,
		Phone:        input.Phone,
		HireDate:     input.HireDate,
		Status:       domain.EmployeeStatusActive,
	}
	if err := s.employeeRepo.Create(ctx, emp); err != nil {
		if derr := s.userRepo.Delete(ctx, user.ID); derr != nil {
			log.Printf("employeeService.Create: failed to roll back user %s: %v", user.ID, derr)
		}
		return nil, err
	}

	log.Printf("employeeService.Create: created employee %s (%s) with role %s", emp.ID, emp.EmployeeCode, role)
	return emp, nil
}

func (s *employeeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *employeeService) List(ctx context.Context, filter port.EmployeeFilter, offset, limit int) ([]domain.Employee, int, error) {
	return s.employeeRepo.List(ctx, filter, offset, limit)
}

func (s *employeeService) Update(ctx context.Context, id uuid.UUID, input UpdateEmployeeInput) (*domain.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		emp.FullName = *input.FullName
	}
	if input.Department != nil {
		emp.Department = *input.Department
	}
	if input.Position != nil {
		emp.Position = *input.Position
	}
	if input.Phone != nil {
		emp.Phone = *input.Phone
	}
	if input.HireDate != nil {
		emp.HireDate = input.HireDate
	}
	statusChanged := false
	if input.Status != nil && *input.Status != emp.Status {
		if *input.Status != domain.EmployeeStatusActive && *input.Status != domain.EmployeeStatusInactive {
			return nil, fmt.Errorf("invalid employee status %q", *input.Status)
		}
		emp.Status = *input.Status
		statusChanged = true
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return nil, err
	}

	if statusChanged {
		if err := s.syncUserActive(ctx, emp); err != nil {
			return nil, err
		}
	}
	return emp, nil
}

// syncUserActive keeps login access in step with the employee status.
func (s *employeeService) syncUserActive(ctx context.Context, emp *domain.Employee) error {
	user, err := s.userRepo.GetByID(ctx, emp.UserID)
	if err != nil {
		return fmt.Errorf("employeeService.Update: %w", err)
	}
	user.IsActive = emp.Status == domain.EmployeeStatusActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("employeeService.Update: %w", err)
	}
	return nil
}

func (s *employeeService) Delete(ctx context.Context, id uuid.UUID) error {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	log.Printf("employeeService.Delete: deleting employee %s and user %s", emp.ID, emp.UserID)
	// Deleting the user cascades to the employee record and its documents.
	return s.userRepo.Delete(ctx, emp.UserID)
}

func (s *employeeService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Employee, error) {
	return s.employeeRepo.GetByUserID(ctx, userID)
}

func (s *employeeService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.Employee, error) {
	emp, err := s.employeeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		emp.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		emp.Phone = strings.TrimSpace(*input.Phone)
	}
	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *employeeService) GetSettings(ctx context.Context, employeeID uuid.UUID) (domain.EmployeeSettings, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return domain.EmployeeSettings{}, err
	}
	return emp.DecodeSettings(), nil
}

func (s *employeeService) UpdateSettings(ctx context.Context, employeeID uuid.UUID, input UpdateSettingsInput) (domain.EmployeeSettings, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return domain.EmployeeSettings{}, err
	}
	settings := emp.DecodeSettings()
	if input.EmailNotifications != nil {
		settings.EmailNotifications = *input.EmailNotifications
	}
	if input.CompactLayout != nil {
		settings.CompactLayout = *input.CompactLayout
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return domain.EmployeeSettings{}, fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.employeeRepo.UpdateSettings(ctx, employeeID, raw); err != nil {
		return domain.EmployeeSettings{}, err
	}
	return settings, nil
}
