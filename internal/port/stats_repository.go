package port

import (
	"context"

	"hrdesk/internal/domain"
)

// StatsRepository provides aggregate statistics queries.
type StatsRepository interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	// CountIncomplete returns the number of active employees missing a non-rejected document for any required slot.
	CountIncomplete(ctx context.Context, requiredSlots []string) (int, error)
}
