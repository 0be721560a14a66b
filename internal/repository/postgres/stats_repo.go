package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const dashboardStatsQuery = `SELECT
	(SELECT COUNT(*) FROM employees) AS total_employees,
	(SELECT COUNT(*) FROM employees WHERE status = 'active') AS active_employees,
	COUNT(CASE WHEN d.verification_status = 'pending' THEN 1 END) AS documents_pending,
	COUNT(CASE WHEN d.verification_status = 'verified' THEN 1 END) AS documents_verified,
	COUNT(CASE WHEN d.verification_status = 'rejected' THEN 1 END) AS documents_rejected
FROM employee_documents d`

// An employee is complete when every required slot holds a document that was not rejected.
const incompleteEmployeesQuery = `SELECT COUNT(*) FROM employees e
WHERE e.status = 'active' AND (
	SELECT COUNT(DISTINCT d.slot_id) FROM employee_documents d
	WHERE d.employee_id = e.id AND d.verification_status <> 'rejected' AND d.slot_id IN (?)
) < ?`

func (r *statsRepo) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := r.db.GetContext(ctx, &stats, dashboardStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetDashboardStats: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) CountIncomplete(ctx context.Context, requiredSlots []string) (int, error) {
	if len(requiredSlots) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(incompleteEmployeesQuery, requiredSlots, len(requiredSlots))
	if err != nil {
		return 0, fmt.Errorf("statsRepo.CountIncomplete build: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("statsRepo.CountIncomplete: %w", err)
	}
	return count, nil
}
