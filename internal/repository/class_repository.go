package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// ClassRepo provides catalog access to gym classes.  It never touches
// classes.booked; that column belongs to the reservation engine in
// BookingRepo.
type ClassRepo struct {
	db *sql.DB
}

// NewClassRepo returns a ClassRepo bound to the given database.
func NewClassRepo(db *sql.DB) *ClassRepo { return &ClassRepo{db: db} }

const classCols = `c.id, c.name, c.description, c.category, c.trainer_id,
       c.schedule_day, c.schedule_start, c.schedule_end, c.schedule_duration,
       c.capacity, c.booked, c.intensity, c.equipment, c.requirements,
       c.is_active, c.created_at, c.updated_at`

// GetByID returns a single class or ErrClassNotFound.
func (r *ClassRepo) GetByID(ctx context.Context, id uint64) (*model.Class, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+classCols+` FROM classes c WHERE c.id = ?`, id)
	cls, err := scanClass(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return cls, nil
}

// List returns classes matching the filter with their trainer summary,
// ordered by weekday then start time so the response reads like a
// timetable.
func (r *ClassRepo) List(ctx context.Context, filter model.ClassFilter) ([]model.ClassDetail, error) {
	q := `SELECT ` + classCols + `,
	             t.id, t.name, t.specialization, t.rating
	      FROM classes c
	      JOIN trainers t ON t.id = c.trainer_id
	      WHERE c.is_active = ?`
	args := []interface{}{filter.IsActive}
	if filter.Category != "" {
		q += ` AND c.category = ?`
		args = append(args, filter.Category)
	}
	if filter.Day != "" {
		q += ` AND c.schedule_day = ?`
		args = append(args, filter.Day)
	}
	if filter.Intensity != "" {
		q += ` AND c.intensity = ?`
		args = append(args, filter.Intensity)
	}
	if filter.TrainerID != 0 {
		q += ` AND c.trainer_id = ?`
		args = append(args, filter.TrainerID)
	}
	q += ` ORDER BY FIELD(c.schedule_day, 'Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'),
	               c.schedule_start ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []model.ClassDetail{}
	for rows.Next() {
		var (
			det   model.ClassDetail
			equip []byte
			reqs  []byte
			spec  []byte
		)
		if err := rows.Scan(
			&det.ID, &det.Name, &det.Description, &det.Category, &det.TrainerID,
			&det.Schedule.Day, &det.Schedule.StartTime, &det.Schedule.EndTime, &det.Schedule.Duration,
			&det.Capacity, &det.Booked, &det.Intensity, &equip, &reqs,
			&det.IsActive, &det.CreatedAt, &det.UpdatedAt,
			&det.Trainer.ID, &det.Trainer.Name, &spec, &det.Trainer.Rating,
		); err != nil {
			return nil, err
		}
		det.Equipment = decodeStrings(equip)
		det.Requirements = decodeStrings(reqs)
		det.Trainer.Specialization = decodeStrings(spec)
		details = append(details, det)
	}
	return details, rows.Err()
}

// Create inserts a new class with booked = 0 and returns the stored row.
func (r *ClassRepo) Create(ctx context.Context, req model.CreateClassRequest) (*model.Class, error) {
	equip, err := json.Marshal(req.Equipment)
	if err != nil {
		return nil, err
	}
	reqs, err := json.Marshal(req.Requirements)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO classes
		   (name, description, category, trainer_id,
		    schedule_day, schedule_start, schedule_end, schedule_duration,
		    capacity, booked, intensity, equipment, requirements, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, TRUE)`,
		req.Name, req.Description, req.Category, req.TrainerID,
		req.Schedule.Day, req.Schedule.StartTime, req.Schedule.EndTime, req.Schedule.Duration,
		req.Capacity, req.Intensity, equip, reqs,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

func scanClass(s scanner) (*model.Class, error) {
	var (
		cls   model.Class
		equip []byte
		reqs  []byte
	)
	if err := s.Scan(
		&cls.ID, &cls.Name, &cls.Description, &cls.Category, &cls.TrainerID,
		&cls.Schedule.Day, &cls.Schedule.StartTime, &cls.Schedule.EndTime, &cls.Schedule.Duration,
		&cls.Capacity, &cls.Booked, &cls.Intensity, &equip, &reqs,
		&cls.IsActive, &cls.CreatedAt, &cls.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cls.Equipment = decodeStrings(equip)
	cls.Requirements = decodeStrings(reqs)
	return &cls, nil
}

// decodeStrings parses a JSON string array column, tolerating NULL and
// malformed content by returning an empty slice.
func decodeStrings(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}
