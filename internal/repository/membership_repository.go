package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// MembershipRepo persists membership applications.  Duplicate detection
// treats pending and approved applications as active; rejected ones do
// not block a fresh application from the same email.
type MembershipRepo struct {
	db *sql.DB
}

// NewMembershipRepo returns a MembershipRepo bound to the given database.
func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{db: db} }

const applicationCols = `id, reference_number, first_name, last_name, email, phone,
       date_of_birth, membership_plan, fitness_goal, referral_source, status,
       trial_start_date, trial_end_date, admin_notes, reviewed_at, reviewed_by,
       ip_address, user_agent, applied_at`

// Create inserts a new application.  It returns ErrDuplicateApplication
// when the email already has a pending or approved application.
func (r *MembershipRepo) Create(ctx context.Context, app *model.MembershipApplication) error {
	var active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM membership_applications
		 WHERE email = ? AND status IN (?, ?)`,
		app.Email, model.ApplicationPending, model.ApplicationApproved,
	).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrDuplicateApplication
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO membership_applications
		   (reference_number, first_name, last_name, email, phone, date_of_birth,
		    membership_plan, fitness_goal, referral_source, status,
		    ip_address, user_agent, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ReferenceNumber, app.FirstName, app.LastName, app.Email, app.Phone, app.DateOfBirth,
		app.MembershipPlan, app.FitnessGoal, app.ReferralSource, app.Status,
		app.IPAddress, app.UserAgent, app.AppliedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	app.ID = uint64(id)
	return nil
}

// GetByID returns a single application or ErrApplicationNotFound.
func (r *MembershipRepo) GetByID(ctx context.Context, id uint64) (*model.MembershipApplication, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationCols+` FROM membership_applications WHERE id = ?`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListByStatus returns one page of applications in the given status,
// newest first, along with the total count for the pagination envelope.
func (r *MembershipRepo) ListByStatus(ctx context.Context, status string, page, limit int) ([]model.MembershipApplication, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM membership_applications WHERE status = ?`, status,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationCols+` FROM membership_applications
		 WHERE status = ?
		 ORDER BY applied_at DESC
		 LIMIT ? OFFSET ?`,
		status, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps := []model.MembershipApplication{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, *app)
	}
	return apps, total, rows.Err()
}

// Review records an admin decision.  Approval stamps the trial window;
// every decision stamps reviewed_at and reviewed_by.
func (r *MembershipRepo) Review(ctx context.Context, id uint64, status string, notes *string, trialStart, trialEnd *time.Time, reviewedBy string) (*model.MembershipApplication, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE membership_applications
		 SET status = ?, admin_notes = COALESCE(?, admin_notes),
		     trial_start_date = ?, trial_end_date = ?,
		     reviewed_at = ?, reviewed_by = ?
		 WHERE id = ?`,
		status, notes, trialStart, trialEnd, time.Now().UTC(), reviewedBy, id,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrApplicationNotFound
	}
	return r.GetByID(ctx, id)
}

func scanApplication(s scanner) (*model.MembershipApplication, error) {
	var (
		app        model.MembershipApplication
		phone, dob sql.NullString
		notes, by  sql.NullString
		ts, te, ra sql.NullTime
	)
	if err := s.Scan(
		&app.ID, &app.ReferenceNumber, &app.FirstName, &app.LastName, &app.Email, &phone,
		&dob, &app.MembershipPlan, &app.FitnessGoal, &app.ReferralSource, &app.Status,
		&ts, &te, &notes, &ra, &by,
		&app.IPAddress, &app.UserAgent, &app.AppliedAt,
	); err != nil {
		return nil, err
	}
	if phone.Valid {
		v := phone.String
		app.Phone = &v
	}
	if dob.Valid {
		v := dob.String
		app.DateOfBirth = &v
	}
	if notes.Valid {
		v := notes.String
		app.AdminNotes = &v
	}
	if by.Valid {
		v := by.String
		app.ReviewedBy = &v
	}
	if ts.Valid {
		t := ts.Time
		app.TrialStartDate = &t
	}
	if te.Valid {
		t := te.Time
		app.TrialEndDate = &t
	}
	if ra.Valid {
		t := ra.Time
		app.ReviewedAt = &t
	}
	return &app, nil
}
