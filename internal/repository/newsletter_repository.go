package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// NewsletterRepo persists newsletter subscriptions.
type NewsletterRepo struct {
	db *sql.DB
}

// NewNewsletterRepo returns a NewsletterRepo bound to the given database.
func NewNewsletterRepo(db *sql.DB) *NewsletterRepo { return &NewsletterRepo{db: db} }

// Subscribe stores a new subscriber.  It returns ErrAlreadySubscribed
// when the email is already on the list.
func (r *NewsletterRepo) Subscribe(ctx context.Context, sub *model.NewsletterSubscriber) error {
	var existing int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM newsletter_subscribers WHERE email = ?`, sub.Email,
	).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return ErrAlreadySubscribed
	}

	prefs, err := json.Marshal(sub.Preferences)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO newsletter_subscribers (email, name, preferences, status, ip_address, subscribed_at)
		 VALUES (?, ?, ?, 'active', ?, ?)`,
		sub.Email, sub.Name, prefs, sub.IPAddress, sub.SubscribedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sub.ID = uint64(id)
	sub.Status = "active"
	return nil
}
