// Package queue defines the notification events exchanged over the
// message broker and the background consumer that delivers them.  The
// broker is the fire-and-forget side channel of the booking engine: a
// publish failure is logged and swallowed, never surfaced to the member.
package queue

import "encoding/json"

// NotificationQueue is the single durable queue all notification events
// flow through.
const NotificationQueue = "gym.notifications"

// Event kinds.
const (
	KindBookingConfirmed  = "booking.confirmed"
	KindMembershipWelcome = "membership.welcome"
)

// Envelope wraps a typed payload with its kind so the consumer can
// dispatch without guessing at the JSON shape.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// BookingConfirmedEvent is published after a reservation commits.  It
// carries enough information for downstream consumers to notify the
// member without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64 `json:"booking_id"`
	ReceiptNumber string `json:"receipt_number"`
	UserRef       string `json:"user_ref"`
	ClassName     string `json:"class_name"`
	BookingDate   string `json:"booking_date"`
	Participants  int    `json:"participants"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// MembershipWelcomeEvent is published when a membership application is
// accepted for review.  The consumer turns it into the welcome email.
type MembershipWelcomeEvent struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	ReferenceNumber string `json:"reference_number"`
	Plan            string `json:"plan"`
	AppliedAt       string `json:"applied_at"`
}
