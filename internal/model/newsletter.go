package model

import "time"

// NewsletterSubscriber is a newsletter signup.  Email addresses are
// unique; resubscribing an existing address is rejected.
type NewsletterSubscriber struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name,omitempty"`
	Preferences  []string  `json:"preferences"`
	Status       string    `json:"status"`
	IPAddress    string    `json:"-"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// SubscribeRequest is the public newsletter signup payload.
type SubscribeRequest struct {
	Email       string   `json:"email"`
	Name        *string  `json:"name,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}
