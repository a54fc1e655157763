package repository

import (
	"context"
	"database/sql"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// ContactRepo persists contact form submissions.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo returns a ContactRepo bound to the given database.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

// Create stores a new message with status "unread" and fills in the
// generated id.
func (r *ContactRepo) Create(ctx context.Context, msg *model.ContactMessage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, phone, subject, message, status, ip_address, user_agent)
		 VALUES (?, ?, ?, ?, ?, 'unread', ?, ?)`,
		msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message, msg.IPAddress, msg.UserAgent,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	msg.ID = uint64(id)
	msg.Status = "unread"
	return nil
}
