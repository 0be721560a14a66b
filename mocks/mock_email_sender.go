package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hrdesk/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendDocumentDecisionEmail(ctx context.Context, msg port.DecisionEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
