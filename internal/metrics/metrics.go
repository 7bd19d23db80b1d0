package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	personsRegistered  metric.Int64Counter
	paymentsRecorded   metric.Int64Counter
	paymentsMarkedPaid metric.Int64Counter
	dashboardViews     metric.Int64Counter
	queryDuration      metric.Float64Histogram
	queryErrors        metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.personsRegistered, err = meter.Int64Counter(
		"academy_service.persons.registered",
		metric.WithDescription("Total number of persons registered"),
		metric.WithUnit("{person}"),
	)
	if err != nil {
		return nil, err
	}

	m.paymentsRecorded, err = meter.Int64Counter(
		"academy_service.payments.recorded",
		metric.WithDescription("Total number of payment records created"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	m.paymentsMarkedPaid, err = meter.Int64Counter(
		"academy_service.payments.marked_paid",
		metric.WithDescription("Total number of payments marked as paid"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	m.dashboardViews, err = meter.Int64Counter(
		"academy_service.dashboard.views",
		metric.WithDescription("Total number of dashboard stats views"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	// Buckets are left to the reader config; seconds unit matches OTel semconv
	m.queryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.queryErrors, err = meter.Int64Counter(
		"db.query.errors",
		metric.WithDescription("Total number of failed database queries"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordPersonRegistered(ctx context.Context) {
	if m == nil || m.personsRegistered == nil {
		return
	}
	m.personsRegistered.Add(ctx, 1)
}

func (m *Metrics) RecordPaymentRecorded(ctx context.Context) {
	if m == nil || m.paymentsRecorded == nil {
		return
	}
	m.paymentsRecorded.Add(ctx, 1)
}

func (m *Metrics) RecordPaymentMarkedPaid(ctx context.Context) {
	if m == nil || m.paymentsMarkedPaid == nil {
		return
	}
	m.paymentsMarkedPaid.Add(ctx, 1)
}

func (m *Metrics) RecordDashboardView(ctx context.Context) {
	if m == nil || m.dashboardViews == nil {
		return
	}
	m.dashboardViews.Add(ctx, 1)
}

// RecordQuery records the duration of a database query and counts failures
func (m *Metrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if m == nil || m.queryDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.table", table),
	)

	m.queryDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		m.queryErrors.Add(ctx, 1, attrs)
	}
}
