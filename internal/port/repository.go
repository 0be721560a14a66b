package port

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// UserRepository defines the contract for login user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// EmployeeFilter narrows employee listings. Empty fields do not filter.
type EmployeeFilter struct {
	Department string
	Status     domain.EmployeeStatus
}

// EmployeeRepository defines the contract for employee record persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter, offset, limit int) ([]domain.Employee, int, error)
	Update(ctx context.Context, emp *domain.Employee) error
	UpdateSettings(ctx context.Context, id uuid.UUID, settings json.RawMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FileMetaRepository defines the contract for file metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, fileID uuid.UUID) error
}
