package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/queue"
)

// BookingStore is the slice of the booking repository the service
// depends on.  The implementation guarantees that Reserve, Cancel,
// Delete and Update are each atomic with respect to concurrent calls on
// the same class: the capacity check and the seat-count mutation happen
// under one lock, never against a value read earlier.
type BookingStore interface {
	Reserve(ctx context.Context, req model.ReserveRequest) (*model.Booking, string, error)
	Cancel(ctx context.Context, id uint64) (*model.Booking, error)
	Delete(ctx context.Context, id uint64) error
	Update(ctx context.Context, id uint64, patch model.BookingPatch) (*model.Booking, error)
	GetByID(ctx context.Context, id uint64) (*model.BookingDetail, error)
	List(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetail, error)
}

// BookingService validates booking requests, drives the reservation
// engine and emits confirmation notifications off the critical path.
type BookingService struct {
	store    BookingStore
	notifier queue.Publisher
}

// NewBookingService constructs a BookingService.  notifier may be nil,
// in which case confirmations are not published.
func NewBookingService(store BookingStore, notifier queue.Publisher) *BookingService {
	return &BookingService{store: store, notifier: notifier}
}

// notifyTimeout bounds the detached publish so a hung broker cannot
// leak goroutines indefinitely.
const notifyTimeout = 5 * time.Second

// Reserve validates the request and runs the atomic reservation.  On
// success it returns the created booking and a confirmation receipt and
// publishes a booking.confirmed event best-effort: a broker failure
// never fails or rolls back the reservation.
func (s *BookingService) Reserve(ctx context.Context, req model.ReserveRequest) (*model.Booking, *model.Receipt, error) {
	var v validator
	if req.ClassID == 0 {
		v.add("classId", "class id is required")
	}
	if req.UserRef == "" {
		v.add("userRef", "user reference is required")
	}
	if req.BookingDate.IsZero() {
		v.add("bookingDate", "booking date is required")
	}
	if req.Participants < 1 || req.Participants > 10 {
		v.add("participants", "participants must be between 1 and 10")
	}
	if req.Notes != nil && len(*req.Notes) > 500 {
		v.add("notes", "notes must be at most 500 characters")
	}
	if err := v.err(); err != nil {
		return nil, nil, err
	}
	req.BookingDate = req.BookingDate.UTC()

	booking, className, err := s.store.Reserve(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	receipt := &model.Receipt{
		BookingID:     booking.ID,
		ReceiptNumber: uuid.NewString(),
		ClassName:     className,
		Date:          booking.BookingDate,
		Participants:  booking.Participants,
		Status:        booking.Status,
	}

	if s.notifier != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:     booking.ID,
			ReceiptNumber: receipt.ReceiptNumber,
			UserRef:       booking.UserRef,
			ClassName:     className,
			BookingDate:   booking.BookingDate.Format(time.RFC3339),
			Participants:  booking.Participants,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.Publish(nctx, queue.KindBookingConfirmed, ev); err != nil {
				log.Printf("booking: confirmation notify failed for booking %d: %v", booking.ID, err)
			}
		}()
	}
	return booking, receipt, nil
}

// Get returns a booking with its class summary.
func (s *BookingService) Get(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	return s.store.GetByID(ctx, id)
}

// List returns bookings matching the filter.
func (s *BookingService) List(ctx context.Context, filter model.BookingFilter) ([]model.BookingDetail, error) {
	if filter.Status != "" && !model.ValidBookingStatus(filter.Status) {
		v := validator{}
		v.add("status", "unknown booking status")
		return nil, v.err()
	}
	return s.store.List(ctx, filter)
}

// Update applies a partial patch.  Participant counts cannot be changed
// on an existing booking; cancel and rebook instead, so the seat
// counter only ever moves through the reservation engine's single
// release path.
func (s *BookingService) Update(ctx context.Context, id uint64, patch model.BookingPatch) (*model.Booking, error) {
	var v validator
	if patch.Status != nil && !model.ValidBookingStatus(*patch.Status) {
		v.add("status", "unknown booking status")
	}
	if patch.Participants != nil {
		v.add("participants", "participants cannot be changed; cancel and rebook")
	}
	if patch.Notes != nil && len(*patch.Notes) > 500 {
		v.add("notes", "notes must be at most 500 characters")
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if patch.BookingDate != nil {
		d := patch.BookingDate.UTC()
		patch.BookingDate = &d
	}
	return s.store.Update(ctx, id, patch)
}

// Cancel releases the booking's spots exactly once and marks it
// cancelled.  Repeated calls are safe no-ops; completed bookings are
// rejected with ErrBookingFinal.
func (s *BookingService) Cancel(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.store.Cancel(ctx, id)
}

// Delete removes a booking permanently, releasing its spots as Cancel
// would.
func (s *BookingService) Delete(ctx context.Context, id uint64) error {
	return s.store.Delete(ctx, id)
}
