package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// BookingRepo owns every read and write against the bookings table and
// is the sole writer of classes.booked.  All seat-count mutations run
// inside a transaction that first locks the class row with
// SELECT ... FOR UPDATE, so concurrent reservations and releases for the
// same class are serialised at the database.  The capacity check is
// re-derived from a live SUM over non-cancelled bookings inside that
// transaction; a value read before the lock was taken is never trusted.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = `b.id, b.class_id, b.user_ref, b.booking_date, b.participants,
       b.status, b.notes, b.check_in_time, b.check_out_time, b.created_at, b.updated_at`

// Reserve atomically validates and reserves spots for a class on a date.
// Preconditions are checked in order while the class row is locked:
//
//  1. the class exists and is active,
//  2. the caller holds no active booking for (user, class, date),
//  3. the live participant sum for (class, date) plus the request fits
//     within capacity.
//
// On success the booking row is inserted and classes.booked incremented
// in the same transaction, so a booking never exists without its seat
// reservation and vice versa.  The class name is returned for the
// confirmation receipt.
func (r *BookingRepo) Reserve(ctx context.Context, req model.ReserveRequest) (*model.Booking, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the class row.  Every Reserve/Cancel/Delete for this class
	// queues behind this lock until we commit or roll back, which is
	// what makes the check-then-act sequence below safe.
	var (
		className string
		capacity  int
		isActive  bool
	)
	err = tx.QueryRowContext(ctx,
		`SELECT name, capacity, is_active FROM classes WHERE id = ? FOR UPDATE`,
		req.ClassID,
	).Scan(&className, &capacity, &isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrClassNotFound
		}
		return nil, "", err
	}
	if !isActive {
		return nil, "", ErrClassInactive
	}

	// One active booking per (user, class, date).
	var dup int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE user_ref = ? AND class_id = ? AND booking_date = ? AND status <> ?`,
		req.UserRef, req.ClassID, req.BookingDate, model.BookingCancelled,
	).Scan(&dup)
	if err != nil {
		return nil, "", err
	}
	if dup > 0 {
		return nil, "", ErrDuplicateBooking
	}

	// Live participant sum for this class+date.  Cancelled bookings do
	// not consume capacity.
	var reserved int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(participants), 0) FROM bookings
		 WHERE class_id = ? AND booking_date = ? AND status <> ?`,
		req.ClassID, req.BookingDate, model.BookingCancelled,
	).Scan(&reserved)
	if err != nil {
		return nil, "", err
	}
	if reserved+req.Participants > capacity {
		return nil, "", &CapacityError{Available: capacity - reserved}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (class_id, user_ref, booking_date, participants, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.ClassID, req.UserRef, req.BookingDate, req.Participants, model.BookingConfirmed, req.Notes,
	)
	if err != nil {
		return nil, "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, "", err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE classes SET booked = booked + ? WHERE id = ?`,
		req.Participants, req.ClassID,
	); err != nil {
		return nil, "", err
	}

	booking, err := scanBookingTx(ctx, tx, uint64(id))
	if err != nil {
		return nil, "", err
	}
	if err = tx.Commit(); err != nil {
		return nil, "", err
	}
	committed = true
	return booking, className, nil
}

// Cancel marks a booking cancelled and releases its spots.  Cancelling
// an already-cancelled booking is a no-op with respect to capacity: the
// class counter is decremented exactly once no matter how many times
// Cancel is called.  Completed bookings cannot be cancelled; as with
// Update, there is no transition out of a terminal state.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := lockBookingTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingCompleted {
		return nil, ErrBookingFinal
	}
	if booking.Status != model.BookingCancelled {
		if err = releaseSeatsTx(ctx, tx, booking.ClassID, booking.Participants); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE bookings SET status = ? WHERE id = ?`,
			model.BookingCancelled, id,
		); err != nil {
			return nil, err
		}
		booking, err = scanBookingTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// Delete releases the booking's spots exactly as Cancel would, then
// removes the row permanently.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := lockBookingTx(ctx, tx, id)
	if err != nil {
		return err
	}
	// Seats were already released if the booking is cancelled.
	if booking.Status != model.BookingCancelled {
		if err = releaseSeatsTx(ctx, tx, booking.ClassID, booking.Participants); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update applies a partial patch to a booking.  A status transition to
// cancelled routes through the same seat-release path as Cancel and is
// applied at most once; transitions out of cancelled or completed are
// rejected with ErrBookingFinal.  No other field affects capacity
// accounting.
func (r *BookingRepo) Update(ctx context.Context, id uint64, patch model.BookingPatch) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := lockBookingTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && *patch.Status != booking.Status {
		if booking.Status != model.BookingConfirmed {
			return nil, ErrBookingFinal
		}
		if *patch.Status == model.BookingCancelled {
			if err = releaseSeatsTx(ctx, tx, booking.ClassID, booking.Participants); err != nil {
				return nil, err
			}
		}
	}

	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if patch.BookingDate != nil {
		sets = append(sets, "booking_date = ?")
		args = append(args, *patch.BookingDate)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}
	if patch.CheckInTime != nil {
		sets = append(sets, "check_in_time = ?")
		args = append(args, *patch.CheckInTime)
	}
	if patch.CheckOutTime != nil {
		sets = append(sets, "check_out_time = ?")
		args = append(args, *patch.CheckOutTime)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err = tx.ExecContext(ctx,
			`UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		); err != nil {
			return nil, err
		}
		booking, err = scanBookingTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// GetByID returns a single booking resolved with its class summary, or
// ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+`,
		        c.id, c.name, c.category, c.schedule_day, c.schedule_start, c.schedule_end,
		        c.schedule_duration, c.intensity
		 FROM bookings b
		 JOIN classes c ON c.id = b.class_id
		 WHERE b.id = ?`, id)
	det, err := scanBookingDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return det, nil
}

// List returns bookings matching the filter, ordered by booking date
// ascending and creation time descending.
func (r *BookingRepo) List(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetail, error) {
	q := `SELECT ` + bookingCols + `,
	             c.id, c.name, c.category, c.schedule_day, c.schedule_start, c.schedule_end,
	             c.schedule_duration, c.intensity
	      FROM bookings b
	      JOIN classes c ON c.id = b.class_id
	      WHERE 1 = 1`
	args := make([]interface{}, 0, 4)
	if filter.UserRef != "" {
		q += ` AND b.user_ref = ?`
		args = append(args, filter.UserRef)
	}
	if filter.Status != "" {
		q += ` AND b.status = ?`
		args = append(args, filter.Status)
	}
	if filter.StartDate != nil {
		q += ` AND b.booking_date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		q += ` AND b.booking_date <= ?`
		args = append(args, *filter.EndDate)
	}
	q += ` ORDER BY b.booking_date ASC, b.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []model.BookingDetail{}
	for rows.Next() {
		det, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *det)
	}
	return details, rows.Err()
}

// lockBookingTx loads a booking row under an exclusive lock so that the
// status check and the seat release that may follow cannot race with a
// concurrent Cancel, Delete or Update on the same booking.
func lockBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings b WHERE b.id = ? FOR UPDATE`, id)
	b, err := scanBookingRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// releaseSeatsTx gives participants spots back to the class counter.
// GREATEST guards the non-negative invariant even if the counter was
// reconciled manually between the lock and this statement.
func releaseSeatsTx(ctx context.Context, tx *sql.Tx, classID uint64, participants int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE classes SET booked = GREATEST(booked - ?, 0) WHERE id = ?`,
		participants, classID)
	return err
}

func scanBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM bookings b WHERE b.id = ?`, id)
	return scanBookingRow(row)
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingRow(s scanner) (*model.Booking, error) {
	var (
		b     model.Booking
		notes sql.NullString
		in    sql.NullTime
		out   sql.NullTime
	)
	if err := s.Scan(
		&b.ID, &b.ClassID, &b.UserRef, &b.BookingDate, &b.Participants,
		&b.Status, &notes, &in, &out, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	if in.Valid {
		t := in.Time
		b.CheckInTime = &t
	}
	if out.Valid {
		t := out.Time
		b.CheckOutTime = &t
	}
	return &b, nil
}

func scanBookingDetail(s scanner) (*model.BookingDetail, error) {
	var (
		det   model.BookingDetail
		notes sql.NullString
		in    sql.NullTime
		out   sql.NullTime
	)
	if err := s.Scan(
		&det.ID, &det.ClassID, &det.UserRef, &det.BookingDate, &det.Participants,
		&det.Status, &notes, &in, &out, &det.CreatedAt, &det.UpdatedAt,
		&det.Class.ID, &det.Class.Name, &det.Class.Category,
		&det.Class.Schedule.Day, &det.Class.Schedule.StartTime, &det.Class.Schedule.EndTime,
		&det.Class.Schedule.Duration, &det.Class.Intensity,
	); err != nil {
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		det.Notes = &n
	}
	if in.Valid {
		t := in.Time
		det.CheckInTime = &t
	}
	if out.Valid {
		t := out.Time
		det.CheckOutTime = &t
	}
	return &det, nil
}
