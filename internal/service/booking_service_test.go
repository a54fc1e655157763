package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
)

// fakeBookingStore keeps bookings in memory and mirrors the atomicity
// contract of the real repository: every mutation runs under one lock
// and capacity is re-derived from live rows, never from a cached value.
type fakeBookingStore struct {
	mu        sync.Mutex
	nextID    uint64
	capacity  int
	className string
	inactive  bool
	bookings  map[uint64]*model.Booking
}

func newFakeBookingStore(capacity int) *fakeBookingStore {
	return &fakeBookingStore{
		nextID:    1,
		capacity:  capacity,
		className: "Morning HIIT",
		bookings:  map[uint64]*model.Booking{},
	}
}

func (f *fakeBookingStore) reservedLocked(classID uint64, date time.Time) int {
	total := 0
	for _, b := range f.bookings {
		if b.ClassID == classID && b.BookingDate.Equal(date) && b.Status != model.BookingCancelled {
			total += b.Participants
		}
	}
	return total
}

func (f *fakeBookingStore) Reserve(ctx context.Context, req model.ReserveRequest) (*model.Booking, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inactive {
		return nil, "", repository.ErrClassInactive
	}
	for _, b := range f.bookings {
		if b.ClassID == req.ClassID && b.UserRef == req.UserRef &&
			b.BookingDate.Equal(req.BookingDate) && b.Status != model.BookingCancelled {
			return nil, "", repository.ErrDuplicateBooking
		}
	}
	reserved := f.reservedLocked(req.ClassID, req.BookingDate)
	if reserved+req.Participants > f.capacity {
		return nil, "", &repository.CapacityError{Available: f.capacity - reserved}
	}
	now := time.Now().UTC()
	b := &model.Booking{
		ID:           f.nextID,
		ClassID:      req.ClassID,
		UserRef:      req.UserRef,
		BookingDate:  req.BookingDate,
		Participants: req.Participants,
		Status:       model.BookingConfirmed,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.nextID++
	f.bookings[b.ID] = b
	return b, f.className, nil
}

func (f *fakeBookingStore) Cancel(ctx context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	if b.Status == model.BookingCompleted {
		return nil, repository.ErrBookingFinal
	}
	b.Status = model.BookingCancelled
	return b, nil
}

func (f *fakeBookingStore) Delete(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingStore) Update(ctx context.Context, id uint64, patch model.BookingPatch) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	if patch.Status != nil {
		if b.Status != model.BookingConfirmed && *patch.Status != b.Status {
			return nil, repository.ErrBookingFinal
		}
		b.Status = *patch.Status
	}
	if patch.BookingDate != nil {
		b.BookingDate = *patch.BookingDate
	}
	if patch.Notes != nil {
		b.Notes = patch.Notes
	}
	return b, nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &model.BookingDetail{Booking: *b, Class: model.ClassSummary{ID: b.ClassID, Name: f.className}}, nil
}

func (f *fakeBookingStore) List(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.BookingDetail
	for _, b := range f.bookings {
		if filter.UserRef != "" && b.UserRef != filter.UserRef {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, model.BookingDetail{Booking: *b, Class: model.ClassSummary{ID: b.ClassID, Name: f.className}})
	}
	return out, nil
}

func reserveReq(userRef string, participants int) model.ReserveRequest {
	return model.ReserveRequest{
		ClassID:      1,
		UserRef:      userRef,
		BookingDate:  time.Date(2026, 9, 14, 7, 0, 0, 0, time.UTC),
		Participants: participants,
	}
}

func TestReserveValidation(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(10), nil)

	cases := []struct {
		name  string
		req   model.ReserveRequest
		field string
	}{
		{"missing class", model.ReserveRequest{UserRef: "u1", BookingDate: time.Now(), Participants: 1}, "classId"},
		{"missing user", model.ReserveRequest{ClassID: 1, BookingDate: time.Now(), Participants: 1}, "userRef"},
		{"missing date", model.ReserveRequest{ClassID: 1, UserRef: "u1", Participants: 1}, "bookingDate"},
		{"zero participants", reserveReq("u1", 0), "participants"},
		{"too many participants", reserveReq("u1", 11), "participants"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Reserve(context.Background(), tc.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
		})
	}
}

func TestReserveTooLongNotes(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(10), nil)
	notes := strings.Repeat("x", 501)
	req := reserveReq("u1", 1)
	req.Notes = &notes

	_, _, err := svc.Reserve(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "notes", verr.Fields[0].Field)
}

func TestReserveReturnsReceipt(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)

	booking, receipt, err := svc.Reserve(context.Background(), reserveReq("u1", 2))
	require.NoError(t, err)
	require.NotNil(t, booking)
	require.NotNil(t, receipt)

	assert.Equal(t, booking.ID, receipt.BookingID)
	assert.Equal(t, "Morning HIIT", receipt.ClassName)
	assert.Equal(t, 2, receipt.Participants)
	assert.Equal(t, model.BookingConfirmed, receipt.Status)
	assert.NotEmpty(t, receipt.ReceiptNumber)
}

func TestReserveCapacityBoundary(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	_, _, err := svc.Reserve(ctx, reserveReq("u1", 6))
	require.NoError(t, err)
	_, _, err = svc.Reserve(ctx, reserveReq("u2", 4))
	require.NoError(t, err)

	// Class is now full for this date.
	_, _, err = svc.Reserve(ctx, reserveReq("u3", 1))
	var capErr *repository.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Available)
}

func TestReserveReportsRemainingSpots(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	_, _, err := svc.Reserve(ctx, reserveReq("u1", 7))
	require.NoError(t, err)

	_, _, err = svc.Reserve(ctx, reserveReq("u2", 5))
	var capErr *repository.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 3, capErr.Available)
}

func TestReserveRejectsDuplicate(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	_, _, err := svc.Reserve(ctx, reserveReq("u1", 1))
	require.NoError(t, err)

	_, _, err = svc.Reserve(ctx, reserveReq("u1", 1))
	assert.ErrorIs(t, err, repository.ErrDuplicateBooking)
}

func TestCancelThenRebookSucceeds(t *testing.T) {
	store := newFakeBookingStore(4)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	b, _, err := svc.Reserve(ctx, reserveReq("u1", 4))
	require.NoError(t, err)

	// Full: a second user is turned away.
	_, _, err = svc.Reserve(ctx, reserveReq("u2", 1))
	var capErr *repository.CapacityError
	require.ErrorAs(t, err, &capErr)

	_, err = svc.Cancel(ctx, b.ID)
	require.NoError(t, err)

	// Cancelling released the spots and lifted the duplicate guard.
	_, _, err = svc.Reserve(ctx, reserveReq("u2", 4))
	require.NoError(t, err)
	_, _, err = svc.Reserve(ctx, reserveReq("u1", 1))
	require.ErrorAs(t, err, &capErr)
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	const (
		capacity = 10
		callers  = 40
	)
	store := newFakeBookingStore(capacity)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, err := svc.Reserve(ctx, reserveReq(fmt.Sprintf("member-%02d", n), 1))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	granted := 0
	for err := range errs {
		if err == nil {
			granted++
			continue
		}
		var capErr *repository.CapacityError
		require.ErrorAs(t, err, &capErr, "every rejection must be a capacity rejection")
	}
	assert.Equal(t, capacity, granted)

	// The store agrees: exactly capacity seats are held.
	_, _, err := svc.Reserve(ctx, reserveReq("late-member", 1))
	var capErr *repository.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Available)
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	b, _, err := svc.Reserve(ctx, reserveReq("u1", 2))
	require.NoError(t, err)

	status := model.BookingCompleted
	_, err = svc.Update(ctx, b.ID, model.BookingPatch{Status: &status})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrBookingFinal)

	// Completed bookings keep their seats on the counter.
	_, _, err = svc.Reserve(ctx, reserveReq("u2", 9))
	var capErr *repository.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 8, capErr.Available)
}

func TestCancelIsIdempotent(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	b, _, err := svc.Reserve(ctx, reserveReq("u1", 3))
	require.NoError(t, err)

	first, err := svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, first.Status)

	second, err := svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, second.Status)

	// Spots were released exactly once.
	_, _, err = svc.Reserve(ctx, reserveReq("u2", 10))
	require.NoError(t, err)
}

func TestDeleteReleasesSpots(t *testing.T) {
	store := newFakeBookingStore(5)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	b, _, err := svc.Reserve(ctx, reserveReq("u1", 5))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))

	_, _, err = svc.Reserve(ctx, reserveReq("u2", 5))
	require.NoError(t, err)

	err = svc.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestUpdateRejectsParticipantChange(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	b, _, err := svc.Reserve(ctx, reserveReq("u1", 2))
	require.NoError(t, err)

	n := 5
	_, err = svc.Update(ctx, b.ID, model.BookingPatch{Participants: &n})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "participants", verr.Fields[0].Field)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(10), nil)

	status := "paused"
	_, err := svc.Update(context.Background(), 1, model.BookingPatch{Status: &status})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Fields[0].Field)
}

func TestUpdateFinalBooking(t *testing.T) {
	store := newFakeBookingStore(10)
	svc := NewBookingService(store, nil)
	ctx := context.Background()

	b, _, err := svc.Reserve(ctx, reserveReq("u1", 1))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, b.ID)
	require.NoError(t, err)

	status := model.BookingCompleted
	_, err = svc.Update(ctx, b.ID, model.BookingPatch{Status: &status})
	assert.ErrorIs(t, err, repository.ErrBookingFinal)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := NewBookingService(newFakeBookingStore(10), nil)

	_, err := svc.List(context.Background(), model.BookingFilter{Status: "gone"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReservePublishesConfirmation(t *testing.T) {
	store := newFakeBookingStore(10)
	pub := &capturePublisher{done: make(chan struct{})}
	svc := NewBookingService(store, pub)

	_, receipt, err := svc.Reserve(context.Background(), reserveReq("u1", 2))
	require.NoError(t, err)

	select {
	case <-pub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation event was not published")
	}
	assert.Equal(t, "booking.confirmed", pub.kind)
	assert.NotNil(t, receipt)
}

func TestReserveSucceedsWhenPublisherFails(t *testing.T) {
	store := newFakeBookingStore(10)
	pub := &capturePublisher{done: make(chan struct{}), err: errors.New("broker down")}
	svc := NewBookingService(store, pub)

	b, _, err := svc.Reserve(context.Background(), reserveReq("u1", 1))
	require.NoError(t, err)
	require.NotNil(t, b)

	select {
	case <-pub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish was never attempted")
	}
}

// capturePublisher records the first published event.
type capturePublisher struct {
	mu   sync.Mutex
	kind string
	err  error
	done chan struct{}
	once sync.Once
}

func (p *capturePublisher) Publish(ctx context.Context, kind string, payload interface{}) error {
	p.mu.Lock()
	p.kind = kind
	p.mu.Unlock()
	p.once.Do(func() { close(p.done) })
	return p.err
}
