package payment

import (
	"context"
	"database/sql"
	"time"

	"academy-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) (*Payment, error)
	GetAll(ctx context.Context) ([]Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	ListByStatus(ctx context.Context, status Status) ([]Payment, error)
	ListByStudent(ctx context.Context, studentID int) ([]Payment, error)
	Update(ctx context.Context, id int, upd *Update) (*Payment, error)
	Delete(ctx context.Context, id int) error
	MarkPaid(ctx context.Context, id int, method string, date Date) (*Payment, error)
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

func (r *repository) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(payment).Returning("*").Exec(ctx)

	r.metrics.RecordQuery(ctx, "insert", "payments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Payment, error) {
	start := time.Now()
	var payments []Payment
	err := r.db.NewSelect().Model(&payments).Order("payment_id ASC").Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "payments", time.Since(start), err)

	return payments, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payment, error) {
	start := time.Now()
	payment := new(Payment)
	err := r.db.NewSelect().Model(payment).Where("payment_id = ?", id).Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "payments", time.Since(start), err)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]Payment, error) {
	start := time.Now()
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Where("status = ?", status).
		Order("payment_id ASC").
		Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "payments", time.Since(start), err)

	return payments, err
}

func (r *repository) ListByStudent(ctx context.Context, studentID int) ([]Payment, error) {
	start := time.Now()
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Where("student_id = ?", studentID).
		Order("payment_id ASC").
		Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "payments", time.Since(start), err)

	return payments, err
}

// Update applies only the fields present in upd. An empty update issues no
// UPDATE at all and returns the current row.
func (r *repository) Update(ctx context.Context, id int, upd *Update) (*Payment, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	start := time.Now()
	payment := new(Payment)
	q := r.db.NewUpdate().
		Model(payment).
		Where("payment_id = ?", id).
		Returning("*")

	if upd.Amount != nil {
		q = q.Set("amount = ?", *upd.Amount)
	}
	if upd.DueDate != nil {
		q = q.Set("due_date = ?", *upd.DueDate)
	}
	if upd.PaymentDate != nil {
		q = q.Set("payment_date = ?", *upd.PaymentDate)
	}
	if upd.PaymentMethod != nil {
		q = q.Set("payment_method = ?", *upd.PaymentMethod)
	}
	if upd.Status != nil {
		q = q.Set("status = ?", *upd.Status)
	}
	if upd.Notes != nil {
		q = q.Set("notes = ?", *upd.Notes)
	}

	result, err := q.Exec(ctx)

	r.metrics.RecordQuery(ctx, "update", "payments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	payment := &Payment{ID: id}
	result, err := r.db.NewDelete().Model(payment).WherePK().Exec(ctx)

	r.metrics.RecordQuery(ctx, "delete", "payments", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// MarkPaid overwrites status, method and date regardless of the previous
// status. Everything else on the row is untouched.
func (r *repository) MarkPaid(ctx context.Context, id int, method string, date Date) (*Payment, error) {
	start := time.Now()
	payment := new(Payment)
	result, err := r.db.NewUpdate().
		Model(payment).
		Where("payment_id = ?", id).
		Set("status = ?", StatusPaid).
		Set("payment_method = ?", method).
		Set("payment_date = ?", date).
		Returning("*").
		Exec(ctx)

	r.metrics.RecordQuery(ctx, "update", "payments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}
