package model

import "time"

// Trainer is a coach on the gym's roster.  Specialization values follow
// the class categories plus "nutrition".
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name.
//  Bio            – short biography (≤1000 chars).
//  Specialization – disciplines the trainer coaches.
//  Certifications – professional certifications held.
//  Experience     – free-form experience summary (e.g. "8 years").
//  Rating         – average member rating, 0..5.
//  IsActive       – inactive trainers are hidden from the roster.
type Trainer struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	Specialization []string  `json:"specialization"`
	Certifications []string  `json:"certifications"`
	Experience     string    `json:"experience"`
	Rating         float64   `json:"rating"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrainerSummary is the slim projection embedded in class responses.
type TrainerSummary struct {
	ID             uint64   `json:"id"`
	Name           string   `json:"name"`
	Specialization []string `json:"specialization"`
	Rating         float64  `json:"rating"`
}
