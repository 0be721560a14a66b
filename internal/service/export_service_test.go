package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
	"hrdesk/internal/export"
	"hrdesk/internal/port"
	"hrdesk/internal/service"
	"hrdesk/mocks"
)

func TestExportService_Roster(t *testing.T) {
	employees := new(mocks.MockEmployeeRepo)
	docs := new(mocks.MockEmployeeDocumentRepo)
	svc := service.NewExportService(employees, docs, nil)

	alice := domain.Employee{ID: uuid.New(), EmployeeCode: "E-001", FullName: "Alice", Status: domain.EmployeeStatusActive}
	filter := port.EmployeeFilter{Department: "Finance"}
	employees.On("List", mock.Anything, filter, 0, 500).Return([]domain.Employee{alice}, 1, nil)
	docs.On("StatusMatrix", mock.Anything).Return([]domain.EmployeeDocumentStatus{
		{EmployeeID: alice.ID, SlotID: "national_id", VerificationStatus: domain.VerificationVerified},
	}, nil)

	roster, err := svc.Roster(context.Background(), filter)

	require.NoError(t, err)
	header := roster.Header()
	rows := roster.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "E-001", rows[0][0])
	assert.Equal(t, "verified", rows[0][indexOf(header, "National ID")])
	assert.Equal(t, export.StatusMissing, rows[0][indexOf(header, "Resume")])
	assert.Equal(t, "No", rows[0][len(header)-1])
}

func TestExportService_Roster_Pages(t *testing.T) {
	employees := new(mocks.MockEmployeeRepo)
	docs := new(mocks.MockEmployeeDocumentRepo)
	svc := service.NewExportService(employees, docs, nil)

	first := make([]domain.Employee, 500)
	for i := range first {
		first[i] = domain.Employee{ID: uuid.New()}
	}
	employees.On("List", mock.Anything, port.EmployeeFilter{}, 0, 500).Return(first, 501, nil)
	employees.On("List", mock.Anything, port.EmployeeFilter{}, 500, 500).Return([]domain.Employee{{ID: uuid.New()}}, 501, nil)
	docs.On("StatusMatrix", mock.Anything).Return([]domain.EmployeeDocumentStatus{}, nil)

	roster, err := svc.Roster(context.Background(), port.EmployeeFilter{})

	require.NoError(t, err)
	assert.Len(t, roster.Rows(), 501)
	employees.AssertExpectations(t)
}

func TestExportService_Roster_ListError(t *testing.T) {
	employees := new(mocks.MockEmployeeRepo)
	svc := service.NewExportService(employees, new(mocks.MockEmployeeDocumentRepo), nil)
	employees.On("List", mock.Anything, mock.Anything, 0, 500).Return(nil, 0, errors.New("db down"))

	_, err := svc.Roster(context.Background(), port.EmployeeFilter{})
	assert.Error(t, err)
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}
