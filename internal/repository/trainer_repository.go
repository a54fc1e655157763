package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// TrainerRepo provides read access to the trainer roster.
type TrainerRepo struct {
	db *sql.DB
}

// NewTrainerRepo returns a TrainerRepo bound to the given database.
func NewTrainerRepo(db *sql.DB) *TrainerRepo { return &TrainerRepo{db: db} }

const trainerCols = `id, name, bio, specialization, certifications, experience,
       rating, is_active, created_at, updated_at`

// GetByID returns a single trainer or ErrTrainerNotFound.
func (r *TrainerRepo) GetByID(ctx context.Context, id uint64) (*model.Trainer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+trainerCols+` FROM trainers WHERE id = ?`, id)
	t, err := scanTrainer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListActive returns every active trainer ordered by name.
func (r *TrainerRepo) ListActive(ctx context.Context) ([]model.Trainer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+trainerCols+` FROM trainers WHERE is_active = TRUE ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers := []model.Trainer{}
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, *t)
	}
	return trainers, rows.Err()
}

func scanTrainer(s scanner) (*model.Trainer, error) {
	var (
		t     model.Trainer
		spec  []byte
		certs []byte
	)
	if err := s.Scan(
		&t.ID, &t.Name, &t.Bio, &spec, &certs, &t.Experience,
		&t.Rating, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Specialization = decodeStrings(spec)
	t.Certifications = decodeStrings(certs)
	return &t, nil
}
