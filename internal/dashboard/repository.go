package dashboard

import (
	"context"
	"time"

	"academy-service/internal/metrics"
	"academy-service/internal/payment"
	"academy-service/internal/person"

	"github.com/uptrace/bun"
)

// Stats is the fixed-shape dashboard summary. The sums are COALESCEd in SQL
// so a status with no payments reports 0.0, never null.
type Stats struct {
	TotalStudents int     `json:"total_students"`
	TotalTeachers int     `json:"total_teachers"`
	TotalPayments int     `json:"total_payments"`
	TotalRevenue  float64 `json:"total_revenue"`
	PendingAmount float64 `json:"pending_amount"`
	OverdueAmount float64 `json:"overdue_amount"`
}

type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats, err := r.stats(ctx)
	r.metrics.RecordQuery(ctx, "select", "dashboard", time.Since(start), err)
	return stats, err
}

func (r *repository) stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	stats.TotalStudents, err = r.db.NewSelect().
		Model((*person.Person)(nil)).
		Where("is_student = TRUE").
		Count(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalTeachers, err = r.db.NewSelect().
		Model((*person.Person)(nil)).
		Where("is_teacher = TRUE").
		Count(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalPayments, err = r.db.NewSelect().
		Model((*payment.Payment)(nil)).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	if stats.TotalRevenue, err = r.sumByStatus(ctx, payment.StatusPaid); err != nil {
		return nil, err
	}
	if stats.PendingAmount, err = r.sumByStatus(ctx, payment.StatusPending); err != nil {
		return nil, err
	}
	if stats.OverdueAmount, err = r.sumByStatus(ctx, payment.StatusOverdue); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repository) sumByStatus(ctx context.Context, status payment.Status) (float64, error) {
	var total float64
	err := r.db.NewSelect().
		Model((*payment.Payment)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("status = ?", status).
		Scan(ctx, &total)
	return total, err
}
