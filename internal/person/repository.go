package person

import (
	"context"
	"database/sql"
	"time"

	"academy-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, person *Person) (*Person, error)
	GetAll(ctx context.Context) ([]Person, error)
	ListStudents(ctx context.Context) ([]Person, error)
	ListTeachers(ctx context.Context) ([]Person, error)
	GetByID(ctx context.Context, id int) (*Person, error)
	Update(ctx context.Context, id int, upd *Update) (*Person, error)
	Delete(ctx context.Context, id int) error
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

// Create inserts the person after checking name uniqueness. Both statements
// run in one transaction so a failed insert leaves no trace.
func (r *repository) Create(ctx context.Context, person *Person) (*Person, error) {
	start := time.Now()
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*Person)(nil)).
			Where("name = ?", person.Name).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateName
		}

		_, err = tx.NewInsert().Model(person).Returning("*").Exec(ctx)
		return err
	})

	r.metrics.RecordQuery(ctx, "insert", "user_info", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return person, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Person, error) {
	start := time.Now()
	var persons []Person
	err := r.db.NewSelect().Model(&persons).Order("user_id ASC").Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "user_info", time.Since(start), err)

	return persons, err
}

func (r *repository) ListStudents(ctx context.Context) ([]Person, error) {
	start := time.Now()
	var persons []Person
	err := r.db.NewSelect().
		Model(&persons).
		Where("is_student = TRUE").
		Order("user_id ASC").
		Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "user_info", time.Since(start), err)

	return persons, err
}

func (r *repository) ListTeachers(ctx context.Context) ([]Person, error) {
	start := time.Now()
	var persons []Person
	err := r.db.NewSelect().
		Model(&persons).
		Where("is_teacher = TRUE").
		Order("user_id ASC").
		Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "user_info", time.Since(start), err)

	return persons, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Person, error) {
	start := time.Now()
	person := new(Person)
	err := r.db.NewSelect().Model(person).Where("user_id = ?", id).Scan(ctx)

	r.metrics.RecordQuery(ctx, "select", "user_info", time.Since(start), err)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return person, nil
}

// Update applies only the fields present in upd. An empty update issues no
// UPDATE at all and returns the current row.
func (r *repository) Update(ctx context.Context, id int, upd *Update) (*Person, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	start := time.Now()
	person := new(Person)
	q := r.db.NewUpdate().
		Model(person).
		Where("user_id = ?", id).
		Returning("*")

	if upd.IsStudent != nil {
		q = q.Set("is_student = ?", *upd.IsStudent)
	}
	if upd.IsTeacher != nil {
		q = q.Set("is_teacher = ?", *upd.IsTeacher)
	}
	if upd.Name != nil {
		q = q.Set("name = ?", *upd.Name)
	}
	if upd.Email != nil {
		q = q.Set("email = ?", *upd.Email)
	}
	if upd.Phone != nil {
		q = q.Set("phone = ?", *upd.Phone)
	}

	result, err := q.Exec(ctx)

	r.metrics.RecordQuery(ctx, "update", "user_info", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrPersonNotFound
	}
	return person, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	person := &Person{ID: id}
	result, err := r.db.NewDelete().Model(person).WherePK().Exec(ctx)

	r.metrics.RecordQuery(ctx, "delete", "user_info", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPersonNotFound
	}
	return nil
}
