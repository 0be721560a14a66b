package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hrdesk/internal/port"
)

// MockEventPublisher is a mock implementation of port.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDecision(ctx context.Context, event port.DecisionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDecisionSubscriber is a mock implementation of port.DecisionSubscriber.
type MockDecisionSubscriber struct {
	mock.Mock
}

func (m *MockDecisionSubscriber) Subscribe(handler port.DecisionHandler) error {
	args := m.Called(handler)
	return args.Error(0)
}

func (m *MockDecisionSubscriber) Close() error {
	args := m.Called()
	return args.Error(0)
}
