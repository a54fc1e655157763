package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/queue"
)

// ApplicationStore is the slice of the membership repository the
// service depends on.
type ApplicationStore interface {
	Create(ctx context.Context, app *model.MembershipApplication) error
	ListByStatus(ctx context.Context, status string, page, limit int) ([]model.MembershipApplication, int, error)
	Review(ctx context.Context, id uint64, status string, notes *string, trialStart, trialEnd *time.Time, reviewedBy string) (*model.MembershipApplication, error)
}

// MembershipService handles the join flow and the admin review flow.
type MembershipService struct {
	store    ApplicationStore
	notifier queue.Publisher
}

// NewMembershipService constructs a MembershipService.  notifier may be
// nil, in which case welcome emails are not queued.
func NewMembershipService(store ApplicationStore, notifier queue.Publisher) *MembershipService {
	return &MembershipService{store: store, notifier: notifier}
}

// trialDays is the length of the free trial granted on approval.
const trialDays = 7

// NextSteps is returned to every successful applicant.
var NextSteps = []string{
	"Our team will review your application within 24 hours",
	"You will receive a welcome email with next steps",
	"Visit us anytime for a facility tour",
}

// Join validates the application, stores it with a fresh reference
// number and queues the welcome email best-effort.
func (s *MembershipService) Join(ctx context.Context, req model.JoinRequest, ip, userAgent string) (*model.MembershipApplication, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var v validator
	if n := len(req.FirstName); n < 2 || n > 50 {
		v.add("firstName", "first name must be 2 to 50 characters")
	}
	if n := len(req.LastName); n < 2 || n > 50 {
		v.add("lastName", "last name must be 2 to 50 characters")
	}
	if !isValidEmail(req.Email) {
		v.add("email", "a valid email address is required")
	}
	if !contains(model.MembershipPlans, req.MembershipPlan) {
		v.add("membershipPlan", "plan must be one of basic, premium, ultimate")
	}
	if strings.TrimSpace(req.FitnessGoal) == "" {
		v.add("fitnessGoal", "fitness goal is required")
	}
	if strings.TrimSpace(req.ReferralSource) == "" {
		v.add("referralSource", "referral source is required")
	}
	if !req.AgreeToTerms {
		v.add("agreeToTerms", "you must agree to the terms and conditions")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	app := &model.MembershipApplication{
		ReferenceNumber: newReferenceNumber(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		DateOfBirth:     req.DateOfBirth,
		MembershipPlan:  req.MembershipPlan,
		FitnessGoal:     req.FitnessGoal,
		ReferralSource:  req.ReferralSource,
		Status:          model.ApplicationPending,
		IPAddress:       ip,
		UserAgent:       userAgent,
		AppliedAt:       time.Now().UTC(),
	}
	if err := s.store.Create(ctx, app); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		ev := queue.MembershipWelcomeEvent{
			Email:           app.Email,
			Name:            app.FirstName + " " + app.LastName,
			ReferenceNumber: app.ReferenceNumber,
			Plan:            app.MembershipPlan,
			AppliedAt:       app.AppliedAt.Format(time.RFC3339),
		}
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.Publish(nctx, queue.KindMembershipWelcome, ev); err != nil {
				log.Printf("membership: welcome notify failed for %s: %v", app.ReferenceNumber, err)
			}
		}()
	}
	return app, nil
}

// ListApplications returns one admin page of applications.  Status
// defaults to pending, page to 1 and limit to 20 (capped at 100).
func (s *MembershipService) ListApplications(ctx context.Context, status string, page, limit int) ([]model.MembershipApplication, int, error) {
	if status == "" {
		status = model.ApplicationPending
	}
	switch status {
	case model.ApplicationPending, model.ApplicationApproved, model.ApplicationRejected:
	default:
		v := validator{}
		v.add("status", "unknown application status")
		return nil, 0, v.err()
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.store.ListByStatus(ctx, status, page, limit)
}

// Review records an admin decision.  Approval opens a 7-day trial
// window starting at the requested date, or today when none is given.
func (s *MembershipService) Review(ctx context.Context, req model.ReviewRequest, reviewedBy string) (*model.MembershipApplication, error) {
	var v validator
	if req.ApplicationID == 0 {
		v.add("applicationId", "application id is required")
	}
	switch req.Status {
	case model.ApplicationApproved, model.ApplicationRejected:
	default:
		v.add("status", "status must be approved or rejected")
	}

	var trialStart, trialEnd *time.Time
	if req.Status == model.ApplicationApproved {
		start := time.Now().UTC()
		if req.TrialStartDate != nil {
			parsed, err := time.Parse(time.RFC3339, *req.TrialStartDate)
			if err != nil {
				v.add("trialStartDate", "trial start date must be RFC 3339")
			} else {
				start = parsed.UTC()
			}
		}
		end := start.AddDate(0, 0, trialDays)
		trialStart, trialEnd = &start, &end
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return s.store.Review(ctx, req.ApplicationID, req.Status, req.Notes, trialStart, trialEnd, reviewedBy)
}

// newReferenceNumber builds the applicant-facing reference, e.g.
// IRONPEAK-3F2A9C41.
func newReferenceNumber() string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "IRONPEAK-" + frag
}
