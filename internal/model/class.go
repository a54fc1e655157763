package model

import "time"

// Class categories and intensity levels accepted by the catalog.
var (
	ClassCategories  = []string{"strength", "cardio", "yoga", "hiit", "recovery", "boxing"}
	ClassIntensities = []string{"Beginner", "Intermediate", "Advanced"}
	WeekDays         = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// ClassSchedule describes the weekly slot a class runs in.  Duration is
// minutes and must stay within 15..120.
type ClassSchedule struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
}

// Class is a bookable gym class.  Capacity is 1..50 and editable only by
// admins; Booked is the denormalised count of currently reserved spots
// and is mutated exclusively by the reservation engine, which keeps
// 0 ≤ Booked ≤ sum of capacity across booked dates at every observable
// instant.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  Description  – marketing description.
//  Category     – one of ClassCategories.
//  TrainerID    – trainer leading the class.
//  Schedule     – weekly slot.
//  Capacity     – maximum participants per date (1..50).
//  Booked       – reserved spots, written only by the reservation engine.
//  Intensity    – one of ClassIntensities.
//  Equipment    – equipment provided or required.
//  Requirements – prerequisites for attending.
//  IsActive     – inactive classes reject new bookings.
type Class struct {
	ID           uint64        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	TrainerID    uint64        `json:"trainer_id"`
	Schedule     ClassSchedule `json:"schedule"`
	Capacity     int           `json:"capacity"`
	Booked       int           `json:"booked"`
	Intensity    string        `json:"intensity"`
	Equipment    []string      `json:"equipment"`
	Requirements []string      `json:"requirements"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// AvailableSpots returns the number of spots left on the class counter.
func (c *Class) AvailableSpots() int { return c.Capacity - c.Booked }

// ClassSummary is the slim projection embedded in booking responses.
type ClassSummary struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	Schedule  ClassSchedule `json:"schedule"`
	Intensity string        `json:"intensity"`
}

// ClassDetail is a class resolved with its trainer summary for catalog
// responses.
type ClassDetail struct {
	Class
	Trainer TrainerSummary `json:"trainer"`
}

// ClassFilter narrows catalog queries.  Empty strings and zero IDs mean
// "no filter"; IsActive defaults to true at the handler.
type ClassFilter struct {
	Category  string
	Day       string
	Intensity string
	TrainerID uint64
	IsActive  bool
}

// CreateClassRequest is the admin payload for adding a class to the
// catalog.  Booked always starts at zero and is not settable.
type CreateClassRequest struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	TrainerID    uint64        `json:"trainer_id"`
	Schedule     ClassSchedule `json:"schedule"`
	Capacity     int           `json:"capacity"`
	Intensity    string        `json:"intensity"`
	Equipment    []string      `json:"equipment"`
	Requirements []string      `json:"requirements"`
}
