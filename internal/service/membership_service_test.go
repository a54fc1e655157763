package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
)

// fakeApplicationStore keeps applications in memory keyed by id.
type fakeApplicationStore struct {
	nextID uint64
	apps   map[uint64]*model.MembershipApplication
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{nextID: 1, apps: map[uint64]*model.MembershipApplication{}}
}

func (f *fakeApplicationStore) Create(ctx context.Context, app *model.MembershipApplication) error {
	for _, a := range f.apps {
		if a.Email == app.Email && a.Status != model.ApplicationRejected {
			return repository.ErrDuplicateApplication
		}
	}
	app.ID = f.nextID
	f.nextID++
	f.apps[app.ID] = app
	return nil
}

func (f *fakeApplicationStore) ListByStatus(ctx context.Context, status string, page, limit int) ([]model.MembershipApplication, int, error) {
	var out []model.MembershipApplication
	for _, a := range f.apps {
		if a.Status == status {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (f *fakeApplicationStore) Review(ctx context.Context, id uint64, status string, notes *string, trialStart, trialEnd *time.Time, reviewedBy string) (*model.MembershipApplication, error) {
	a, ok := f.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	a.Status = status
	a.AdminNotes = notes
	a.TrialStartDate = trialStart
	a.TrialEndDate = trialEnd
	a.ReviewedBy = &reviewedBy
	now := time.Now().UTC()
	a.ReviewedAt = &now
	return a, nil
}

func joinReq() model.JoinRequest {
	return model.JoinRequest{
		FirstName:      "Maya",
		LastName:       "Kern",
		Email:          "maya@example.com",
		MembershipPlan: "premium",
		FitnessGoal:    "strength",
		ReferralSource: "friend",
		AgreeToTerms:   true,
	}
}

func TestJoinCreatesPendingApplication(t *testing.T) {
	store := newFakeApplicationStore()
	svc := NewMembershipService(store, nil)

	app, err := svc.Join(context.Background(), joinReq(), "203.0.113.9", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, model.ApplicationPending, app.Status)
	assert.Equal(t, "maya@example.com", app.Email)
	assert.Equal(t, "203.0.113.9", app.IPAddress)
	assert.Regexp(t, regexp.MustCompile(`^IRONPEAK-[0-9A-F]{8}$`), app.ReferenceNumber)
	assert.False(t, app.AppliedAt.IsZero())
}

func TestJoinNormalizesEmail(t *testing.T) {
	store := newFakeApplicationStore()
	svc := NewMembershipService(store, nil)

	req := joinReq()
	req.Email = "  Maya@Example.COM "
	app, err := svc.Join(context.Background(), req, "", "")
	require.NoError(t, err)
	assert.Equal(t, "maya@example.com", app.Email)
}

func TestJoinValidation(t *testing.T) {
	svc := NewMembershipService(newFakeApplicationStore(), nil)

	cases := []struct {
		name   string
		mutate func(*model.JoinRequest)
		field  string
	}{
		{"short first name", func(r *model.JoinRequest) { r.FirstName = "M" }, "firstName"},
		{"short last name", func(r *model.JoinRequest) { r.LastName = "K" }, "lastName"},
		{"bad email", func(r *model.JoinRequest) { r.Email = "not-an-email" }, "email"},
		{"unknown plan", func(r *model.JoinRequest) { r.MembershipPlan = "diamond" }, "membershipPlan"},
		{"missing goal", func(r *model.JoinRequest) { r.FitnessGoal = " " }, "fitnessGoal"},
		{"missing source", func(r *model.JoinRequest) { r.ReferralSource = "" }, "referralSource"},
		{"terms not accepted", func(r *model.JoinRequest) { r.AgreeToTerms = false }, "agreeToTerms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := joinReq()
			tc.mutate(&req)
			_, err := svc.Join(context.Background(), req, "", "")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
		})
	}
}

func TestJoinRejectsDuplicateEmail(t *testing.T) {
	store := newFakeApplicationStore()
	svc := NewMembershipService(store, nil)
	ctx := context.Background()

	_, err := svc.Join(ctx, joinReq(), "", "")
	require.NoError(t, err)

	_, err = svc.Join(ctx, joinReq(), "", "")
	assert.ErrorIs(t, err, repository.ErrDuplicateApplication)
}

func TestReviewApprovalOpensTrialWindow(t *testing.T) {
	store := newFakeApplicationStore()
	svc := NewMembershipService(store, nil)
	ctx := context.Background()

	app, err := svc.Join(ctx, joinReq(), "", "")
	require.NoError(t, err)

	start := "2026-09-15T00:00:00Z"
	reviewed, err := svc.Review(ctx, model.ReviewRequest{
		ApplicationID:  app.ID,
		Status:         model.ApplicationApproved,
		TrialStartDate: &start,
	}, "admin-1")
	require.NoError(t, err)

	require.NotNil(t, reviewed.TrialStartDate)
	require.NotNil(t, reviewed.TrialEndDate)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *reviewed.TrialStartDate)
	assert.Equal(t, time.Date(2026, 9, 22, 0, 0, 0, 0, time.UTC), *reviewed.TrialEndDate)
	assert.Equal(t, model.ApplicationApproved, reviewed.Status)
}

func TestReviewRejectionHasNoTrial(t *testing.T) {
	store := newFakeApplicationStore()
	svc := NewMembershipService(store, nil)
	ctx := context.Background()

	app, err := svc.Join(ctx, joinReq(), "", "")
	require.NoError(t, err)

	reviewed, err := svc.Review(ctx, model.ReviewRequest{
		ApplicationID: app.ID,
		Status:        model.ApplicationRejected,
	}, "admin-1")
	require.NoError(t, err)
	assert.Nil(t, reviewed.TrialStartDate)
	assert.Nil(t, reviewed.TrialEndDate)
}

func TestReviewRejectsBadStatus(t *testing.T) {
	svc := NewMembershipService(newFakeApplicationStore(), nil)

	_, err := svc.Review(context.Background(), model.ReviewRequest{
		ApplicationID: 1,
		Status:        "pending",
	}, "admin-1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Fields[0].Field)
}

func TestReviewRejectsBadTrialDate(t *testing.T) {
	store := newFakeApplicationStore()
	svc := NewMembershipService(store, nil)

	bad := "15/09/2026"
	_, err := svc.Review(context.Background(), model.ReviewRequest{
		ApplicationID:  1,
		Status:         model.ApplicationApproved,
		TrialStartDate: &bad,
	}, "admin-1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "trialStartDate", verr.Fields[0].Field)
}

func TestListApplicationsDefaults(t *testing.T) {
	store := newFakeApplicationStore()
	svc := NewMembershipService(store, nil)
	ctx := context.Background()

	_, err := svc.Join(ctx, joinReq(), "", "")
	require.NoError(t, err)

	apps, total, err := svc.ListApplications(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, apps, 1)
	assert.Equal(t, model.ApplicationPending, apps[0].Status)
}

func TestListApplicationsUnknownStatus(t *testing.T) {
	svc := NewMembershipService(newFakeApplicationStore(), nil)

	_, _, err := svc.ListApplications(context.Background(), "archived", 1, 20)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
