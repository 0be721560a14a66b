package service

import (
	"context"
	"fmt"

	"hrdesk/internal/domain"
	"hrdesk/internal/export"
	"hrdesk/internal/port"
	"hrdesk/internal/upload"
)

const exportPageSize = 500

// ExportService builds the employee document roster.
type ExportService interface {
	Roster(ctx context.Context, filter port.EmployeeFilter) (*export.Roster, error)
}

type exportService struct {
	employeeRepo port.EmployeeRepository
	docRepo      port.EmployeeDocumentRepository
	catalog      *upload.Catalog
}

// NewExportService creates a new ExportService implementation.
func NewExportService(employeeRepo port.EmployeeRepository, docRepo port.EmployeeDocumentRepository, catalog *upload.Catalog) ExportService {
	if catalog == nil {
		catalog = upload.DefaultCatalog()
	}
	return &exportService{employeeRepo: employeeRepo, docRepo: docRepo, catalog: catalog}
}

func (s *exportService) Roster(ctx context.Context, filter port.EmployeeFilter) (*export.Roster, error) {
	var employees []domain.Employee
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.employeeRepo.List(ctx, filter, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("exportService.Roster: %w", err)
		}
		employees = append(employees, page...)
		if len(page) < exportPageSize || len(employees) >= total {
			break
		}
	}

	matrix, err := s.docRepo.StatusMatrix(ctx)
	if err != nil {
		return nil, fmt.Errorf("exportService.Roster: %w", err)
	}
	return export.NewRoster(s.catalog, employees, matrix), nil
}
