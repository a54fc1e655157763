package model

import "time"

// Booking status values.  A booking is created as confirmed and may move
// to cancelled (seats released) or completed (terminal, seats stay
// counted until the class record is archived).  No transition is defined
// out of cancelled or completed.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// ValidBookingStatus reports whether s is one of the three recognised
// booking states.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking records a member's reservation of one or more spots in a class
// on a particular date.  Capacity is tracked per (class, booking date).
// A member cannot hold two active bookings for the same slot; cancelled
// rows stay behind for history, so this is enforced by a duplicate check
// inside the reservation transaction rather than a unique index.
//
// Fields:
//  ID           – primary key identifier.
//  ClassID      – class being booked.
//  UserRef      – opaque member identifier supplied by the identity layer.
//  BookingDate  – the date/time slot the class occurs on (UTC).
//  Participants – number of spots reserved by this booking (1..10).
//  Status       – confirmed, cancelled or completed.
//  Notes        – optional free text (≤500 chars), no capacity effect.
//  CheckInTime  – when the member checked in, if they did.
//  CheckOutTime – when the member checked out.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Booking struct {
	ID           uint64     `json:"id"`
	ClassID      uint64     `json:"class_id"`
	UserRef      string     `json:"user_ref"`
	BookingDate  time.Time  `json:"booking_date"`
	Participants int        `json:"participants"`
	Status       string     `json:"status"`
	Notes        *string    `json:"notes,omitempty"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BookingDetail is a booking resolved with a minimal class summary for
// list and detail responses.
type BookingDetail struct {
	Booking
	Class ClassSummary `json:"class"`
}

// BookingFilter narrows List queries.  Zero values mean "no filter".
type BookingFilter struct {
	UserRef   string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// ReserveRequest carries the validated inputs of a reservation attempt
// into the reservation engine.
type ReserveRequest struct {
	ClassID      uint64
	UserRef      string
	BookingDate  time.Time
	Participants int
	Notes        *string
}

// BookingPatch is a partial update for an existing booking.  Nil fields
// are left untouched.  A Status of "cancelled" routes through the seat
// release path exactly once.
type BookingPatch struct {
	BookingDate  *time.Time
	Participants *int
	Status       *string
	Notes        *string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

// Receipt confirms a successful reservation back to the caller.
type Receipt struct {
	BookingID     uint64    `json:"booking_id"`
	ReceiptNumber string    `json:"receipt_number"`
	ClassName     string    `json:"class_name"`
	Date          time.Time `json:"date"`
	Participants  int       `json:"participants"`
	Status        string    `json:"status"`
}
