package repository

import (
	"context"
	"database/sql"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// TestimonialRepo persists member testimonials.
type TestimonialRepo struct {
	db *sql.DB
}

// NewTestimonialRepo returns a TestimonialRepo bound to the given database.
func NewTestimonialRepo(db *sql.DB) *TestimonialRepo { return &TestimonialRepo{db: db} }

// Create stores a new testimonial in pending state.
func (r *TestimonialRepo) Create(ctx context.Context, t *model.Testimonial) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO testimonials (name, role, title, content, rating, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Name, t.Role, t.Title, t.Content, t.Rating, model.TestimonialPending,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	t.Status = model.TestimonialPending
	return nil
}

// ListApproved returns approved testimonials, newest first.
func (r *TestimonialRepo) ListApproved(ctx context.Context) ([]model.Testimonial, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, role, title, content, rating, status, created_at
		 FROM testimonials
		 WHERE status = ?
		 ORDER BY created_at DESC`,
		model.TestimonialApproved,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Testimonial{}
	for rows.Next() {
		var (
			t    model.Testimonial
			role sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &role, &t.Title, &t.Content, &t.Rating, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		if role.Valid {
			v := role.String
			t.Role = &v
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
