package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type employeeRepo struct {
	db *sqlx.DB
}

// NewEmployeeRepo creates a new PostgreSQL-backed EmployeeRepository.
func NewEmployeeRepo(db *sqlx.DB) port.EmployeeRepository {
	return &employeeRepo{db: db}
}

func duplicateEmployeeErr(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key") {
		return nil
	}
	if strings.Contains(msg, "employee_code") {
		return domain.ErrDuplicateEmployeeCode
	}
	return domain.ErrDuplicateEmail
}

func (r *employeeRepo) Create(ctx context.Context, emp *domain.Employee) error {
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	if len(emp.Settings) == 0 {
		emp.Settings, _ = json.Marshal(domain.DefaultEmployeeSettings())
	}

	query := `INSERT INTO employees
		(id, user_id, employee_code, full_name, email, department, position, phone,
		 hire_date, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.UserID, emp.EmployeeCode, emp.FullName, emp.Email, emp.Department,
		emp.Position, emp.Phone, emp.HireDate, emp.Status, emp.Settings, emp.CreatedAt, emp.UpdatedAt)
	if err != nil {
		if dup := duplicateEmployeeErr(err); dup != nil {
			return dup
		}
		return fmt.Errorf("employeeRepo.Create: %w", err)
	}
	return nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.GetContext(ctx, &emp, "SELECT * FROM employees WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("employeeRepo.GetByID: %w", err)
	}
	return &emp, nil
}

func (r *employeeRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.GetContext(ctx, &emp, "SELECT * FROM employees WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("employeeRepo.GetByUserID: %w", err)
	}
	return &emp, nil
}

func (r *employeeRepo) List(ctx context.Context, filter port.EmployeeFilter, offset, limit int) ([]domain.Employee, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Department != "" {
		args = append(args, filter.Department)
		conds = append(conds, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM employees"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("employeeRepo.List count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM employees%s ORDER BY full_name ASC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	var employees []domain.Employee
	if err := r.db.SelectContext(ctx, &employees, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("employeeRepo.List: %w", err)
	}
	return employees, total, nil
}

func (r *employeeRepo) Update(ctx context.Context, emp *domain.Employee) error {
	emp.UpdatedAt = time.Now().UTC()
	query := `UPDATE employees SET employee_code = $1, full_name = $2, email = $3, department = $4,
		position = $5, phone = $6, hire_date = $7, status = $8, updated_at = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(ctx, query,
		emp.EmployeeCode, emp.FullName, emp.Email, emp.Department, emp.Position,
		emp.Phone, emp.HireDate, emp.Status, emp.UpdatedAt, emp.ID)
	if err != nil {
		if dup := duplicateEmployeeErr(err); dup != nil {
			return dup
		}
		return fmt.Errorf("employeeRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepo) UpdateSettings(ctx context.Context, id uuid.UUID, settings json.RawMessage) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE employees SET settings = $1, updated_at = $2 WHERE id = $3",
		settings, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("employeeRepo.UpdateSettings: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("employeeRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}
