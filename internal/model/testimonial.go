package model

import "time"

// Testimonial statuses.  Submissions start pending; only approved
// testimonials are served publicly.
const (
	TestimonialPending  = "pending"
	TestimonialApproved = "approved"
)

// Testimonial is a member success story displayed on the site.
type Testimonial struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Role      *string   `json:"role,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TestimonialRequest is the public submission payload.
type TestimonialRequest struct {
	Name    string  `json:"name"`
	Role    *string `json:"role,omitempty"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Rating  int     `json:"rating"`
}
