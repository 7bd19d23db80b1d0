package person

import (
	"context"
	"errors"
	"log/slog"

	"academy-service/internal/events"
	"academy-service/internal/validate"
)

var (
	ErrPersonNotFound = errors.New("user not found")
	ErrDuplicateName  = errors.New("username already registered")
	ErrInvalidInput   = errors.New("invalid input")
)

type Service interface {
	Create(ctx context.Context, req *CreateRequest) (*Person, error)
	GetAll(ctx context.Context) ([]Person, error)
	ListStudents(ctx context.Context) ([]Person, error)
	ListTeachers(ctx context.Context) ([]Person, error)
	GetByID(ctx context.Context, id int) (*Person, error)
	Update(ctx context.Context, id int, upd *Update) (*Person, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo   Repository
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

func (s *service) Create(ctx context.Context, req *CreateRequest) (*Person, error) {
	phone, err := validate.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	email, err := validate.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	person := &Person{
		IsStudent: req.IsStudent,
		IsTeacher: req.IsTeacher,
		Name:      req.Name,
		Email:     email,
		Phone:     phone,
	}

	created, err := s.repo.Create(ctx, person)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypePersonCreated, created)
	return created, nil
}

func (s *service) GetAll(ctx context.Context) ([]Person, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) ListStudents(ctx context.Context) ([]Person, error) {
	return s.repo.ListStudents(ctx)
}

func (s *service) ListTeachers(ctx context.Context) ([]Person, error) {
	return s.repo.ListTeachers(ctx)
}

func (s *service) GetByID(ctx context.Context, id int) (*Person, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// Update re-validates phone/email when present. All supplied fields are
// validated before anything is persisted.
func (s *service) Update(ctx context.Context, id int, upd *Update) (*Person, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	if upd.Phone != nil {
		phone, err := validate.NormalizePhone(*upd.Phone)
		if err != nil {
			return nil, err
		}
		upd.Phone = &phone
	}
	if upd.Email != nil {
		email, err := validate.NormalizeEmail(*upd.Email)
		if err != nil {
			return nil, err
		}
		upd.Email = &email
	}

	return s.repo.Update(ctx, id, upd)
}

func (s *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
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
