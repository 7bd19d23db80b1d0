package payment

import (
	"context"
	"errors"
	"log/slog"

	"academy-service/internal/events"
	"academy-service/internal/person"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type Service interface {
	Create(ctx context.Context, req *CreateRequest) (*Payment, error)
	List(ctx context.Context, status string) ([]Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	ListForStudent(ctx context.Context, studentID int) (*person.Person, []Payment, error)
	Update(ctx context.Context, id int, upd *Update) (*Payment, error)
	Delete(ctx context.Context, id int) error
	MarkPaid(ctx context.Context, id int, method string, date *Date) (*Payment, error)
}

type service struct {
	repo    Repository
	persons person.Repository
	events  events.Publisher
	logger  *slog.Logger
}

func NewService(repo Repository, persons person.Repository, publisher events.Publisher, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		persons: persons,
		events:  publisher,
		logger:  logger,
	}
}

// Create records a payment for an existing person. The person check happens
// here, not in the store; later deletion of the person leaves the rows
// dangling on purpose.
func (s *service) Create(ctx context.Context, req *CreateRequest) (*Payment, error) {
	if _, err := s.persons.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	payment := &Payment{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		PaymentDate:   req.PaymentDate,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		Notes:         req.Notes,
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypePaymentRecorded, created)
	return created, nil
}

func (s *service) List(ctx context.Context, status string) ([]Payment, error) {
	if status != "" {
		return s.repo.ListByStatus(ctx, Status(status))
	}
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int) (*Payment, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListForStudent(ctx context.Context, studentID int) (*person.Person, []Payment, error) {
	p, err := s.persons.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, err
	}

	payments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	return p, payments, nil
}

func (s *service) Update(ctx context.Context, id int, upd *Update) (*Payment, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// MarkPaid defaults the payment date to today. It does not inspect the
// previous status: re-marking a paid payment just overwrites the fields.
func (s *service) MarkPaid(ctx context.Context, id int, method string, date *Date) (*Payment, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	paymentDate := Today()
	if date != nil {
		paymentDate = *date
	}

	updated, err := s.repo.MarkPaid(ctx, id, method, paymentDate)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypePaymentPaid, updated)
	return updated, nil
}

// publish is best-effort: a missing publisher or a publish error never fails
// the request.
func (s *service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		s.logger.WarnContext(ctx, "event publish failed", "type", eventType, "error", err)
	}
}
