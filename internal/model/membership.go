package model

import "time"

// Membership application statuses and plans.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

var MembershipPlans = []string{"basic", "premium", "ultimate"}

// MembershipApplication is a prospective member's join request.  At most
// one pending or approved application may exist per email address.
//
// Fields:
//  ID              – primary key identifier.
//  ReferenceNumber – human-quotable reference handed to the applicant.
//  FirstName       – applicant first name (2..50 chars).
//  LastName        – applicant last name (2..50 chars).
//  Email           – contact email, uniqueness enforced for active applications.
//  Phone           – optional phone number.
//  DateOfBirth     – optional date of birth, free-form as submitted.
//  MembershipPlan  – one of MembershipPlans.
//  FitnessGoal     – what the applicant wants to achieve.
//  ReferralSource  – how they heard about the gym.
//  Status          – pending, approved or rejected.
//  TrialStartDate  – start of the 7-day trial, set on approval.
//  TrialEndDate    – end of the trial, set on approval.
//  AdminNotes      – reviewer notes.
//  ReviewedAt      – when the application was reviewed.
//  ReviewedBy      – reviewer identifier.
//  IPAddress       – client IP captured at submission.
//  UserAgent       – client user agent captured at submission.
//  AppliedAt       – submission timestamp.
type MembershipApplication struct {
	ID              uint64     `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone,omitempty"`
	DateOfBirth     *string    `json:"date_of_birth,omitempty"`
	MembershipPlan  string     `json:"membership_plan"`
	FitnessGoal     string     `json:"fitness_goal"`
	ReferralSource  string     `json:"referral_source"`
	Status          string     `json:"status"`
	TrialStartDate  *time.Time `json:"trial_start_date,omitempty"`
	TrialEndDate    *time.Time `json:"trial_end_date,omitempty"`
	AdminNotes      *string    `json:"admin_notes,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *string    `json:"reviewed_by,omitempty"`
	IPAddress       string     `json:"-"`
	UserAgent       string     `json:"-"`
	AppliedAt       time.Time  `json:"applied_at"`
}

// JoinRequest is the public membership application payload.
type JoinRequest struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	DateOfBirth    *string `json:"dateOfBirth,omitempty"`
	MembershipPlan string  `json:"membershipPlan"`
	FitnessGoal    string  `json:"fitnessGoal"`
	ReferralSource string  `json:"referralSource"`
	AgreeToTerms   bool    `json:"agreeToTerms"`
}

// ReviewRequest is the admin payload for deciding an application.
type ReviewRequest struct {
	ApplicationID  uint64  `json:"applicationId"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	TrialStartDate *string `json:"trialStartDate,omitempty"`
}
