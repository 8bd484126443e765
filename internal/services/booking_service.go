package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"rentalhub/internal/caching"
	"rentalhub/internal/common"
	"rentalhub/internal/events"
	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/google/uuid"
)

// BookingService drives the booking state machine and the property status
// changes that follow from it.
type BookingService interface {
	Create(ctx context.Context, caller *models.User, req *models.BookingRequest) (*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	ListForTenant(ctx context.Context, caller *models.User) ([]*models.Booking, error)
	ListForAgent(ctx context.Context, caller *models.User) ([]*models.Booking, error)
	GetByID(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, update *models.BookingStatusUpdate) (*models.Booking, error)
	Cancel(ctx context.Context, caller *models.User, id uuid.UUID) error
	CompleteEnded(ctx context.Context, now time.Time) (*repositories.SweepResult, error)
}

type bookingService struct {
	bookingRepo  repositories.BookingRepository
	propertyRepo repositories.PropertyRepository
	cacheService caching.CacheService
	publisher    events.Publisher
}

func NewBookingService(bookingRepo repositories.BookingRepository, propertyRepo repositories.PropertyRepository, cacheService caching.CacheService, publisher events.Publisher) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		cacheService: cacheService,
		publisher:    publisher,
	}
}

// Create validates the request, then locks the property, checks it is
// available and free for the range, inserts the booking and marks the
// property booked in one transaction.
func (s *bookingService) Create(ctx context.Context, caller *models.User, req *models.BookingRequest) (*models.Booking, error) {
	if !CanCreateBooking(caller) {
		return nil, common.Forbidden("user role '%s' is not authorized to create bookings", roleOf(caller))
	}
	if req.PropertyID == uuid.Nil {
		return nil, common.Validation("propertyId is required")
	}
	if req.DateRange.Start.IsZero() || req.DateRange.End.IsZero() {
		return nil, common.Validation("dateRange start and end are required")
	}
	if !req.DateRange.Valid() {
		return nil, common.Validation("dateRange start must be before end")
	}
	if req.Amount != nil {
		if err := common.ValidateNonNegative(*req.Amount, "amount"); err != nil {
			return nil, err
		}
	}

	booking := &models.Booking{
		ID:            uuid.New(),
		PropertyID:    req.PropertyID,
		TenantID:      caller.ID,
		DateRange:     req.DateRange,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}
	check := func(property *models.Property) error {
		if property.Status != models.PropertyAvailable {
			return common.Conflict("property is not available for booking")
		}
		if req.Amount != nil {
			booking.Amount = *req.Amount
		} else {
			booking.Amount = property.Price
		}
		return nil
	}

	if err := s.bookingRepo.CreateAtomic(ctx, booking, check); err != nil {
		return nil, err
	}
	booking.Tenant = caller.Summary()

	invalidateListings(ctx, s.cacheService)
	s.emit(ctx, events.BookingCreated, booking)
	return booking, nil
}

func (s *bookingService) List(ctx context.Context) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx)
}

func (s *bookingService) ListForTenant(ctx context.Context, caller *models.User) ([]*models.Booking, error) {
	return s.bookingRepo.ListByTenant(ctx, caller.ID)
}

// ListForAgent returns bookings on every property the agent owns.
func (s *bookingService) ListForAgent(ctx context.Context, caller *models.User) ([]*models.Booking, error) {
	propertyIDs, err := s.propertyRepo.ListIDsByAgent(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByPropertyIDs(ctx, propertyIDs)
}

func (s *bookingService) GetByID(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.propertyOwner(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if !CanReadBooking(caller, booking, ownerID) {
		return nil, common.Forbidden("not authorized to view this booking")
	}
	return booking, nil
}

// UpdateStatus applies a partial status and payment update. Cancelling
// frees the property in the same transaction.
func (s *bookingService) UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, update *models.BookingStatusUpdate) (*models.Booking, error) {
	if update.Status == nil && update.PaymentStatus == nil {
		return nil, common.Validation("status or paymentStatus is required")
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, common.Validation("status must be one of pending, confirmed, cancelled, completed")
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.Valid() {
		return nil, common.Validation("paymentStatus must be one of pending, completed, failed, refunded")
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ownerID, err := s.propertyOwner(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if !CanUpdateBookingStatus(caller, ownerID) {
		return nil, common.Forbidden("not authorized to update this booking")
	}

	previous := booking.Status
	if update.Status != nil {
		if !booking.Status.CanTransitionTo(*update.Status) {
			return nil, common.Validation("cannot change booking status from %s to %s", booking.Status, *update.Status)
		}
		booking.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		booking.PaymentStatus = *update.PaymentStatus
	}

	release := booking.Status == models.BookingCancelled
	if err := s.bookingRepo.UpdateStatus(ctx, booking, previous, release); err != nil {
		return nil, err
	}
	if release {
		invalidateListings(ctx, s.cacheService)
	}

	if booking.Status != previous {
		switch booking.Status {
		case models.BookingCancelled:
			s.emit(ctx, events.BookingCancelled, booking)
		case models.BookingCompleted:
			s.emit(ctx, events.BookingCompleted, booking)
		default:
			s.emit(ctx, events.BookingStatusChanged, booking)
		}
	}
	return booking, nil
}

// Cancel lets the booking's tenant cancel it. Cancelling an already
// cancelled booking succeeds and re-asserts the property is available.
func (s *bookingService) Cancel(ctx context.Context, caller *models.User, id uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanCancelBooking(caller, booking) {
		return common.Forbidden("not authorized to cancel this booking")
	}
	if booking.Status.Terminal() && booking.Status != models.BookingCancelled {
		return common.Validation("%s bookings cannot be cancelled", booking.Status)
	}

	previous := booking.Status
	booking.Status = models.BookingCancelled
	if err := s.bookingRepo.UpdateStatus(ctx, booking, previous, true); err != nil {
		return err
	}

	invalidateListings(ctx, s.cacheService)
	if previous != models.BookingCancelled {
		s.emit(ctx, events.BookingCancelled, booking)
	}
	return nil
}

// CompleteEnded completes confirmed bookings whose end date is before now
// and frees properties left without active bookings.
func (s *bookingService) CompleteEnded(ctx context.Context, now time.Time) (*repositories.SweepResult, error) {
	result, err := s.bookingRepo.CompleteEnded(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete ended bookings: %w", err)
	}

	if len(result.Released) > 0 {
		invalidateListings(ctx, s.cacheService)
	}
	for _, id := range result.Completed {
		events.Emit(ctx, s.publisher, events.Event{
			Type:     events.BookingCompleted,
			EntityID: id.String(),
			Status:   string(models.BookingCompleted),
		})
	}
	if len(result.Completed) > 0 {
		log.Printf("Completed %d ended bookings, released %d properties", len(result.Completed), len(result.Released))
	}
	return result, nil
}

// propertyOwner returns the agent owning the property, or uuid.Nil when the
// property no longer exists.
func (s *bookingService) propertyOwner(ctx context.Context, propertyID uuid.UUID) (uuid.UUID, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return property.AgentID, nil
}

func (s *bookingService) emit(ctx context.Context, eventType string, booking *models.Booking) {
	events.Emit(ctx, s.publisher, events.Event{
		Type:       eventType,
		EntityID:   booking.ID.String(),
		PropertyID: booking.PropertyID.String(),
		Status:     string(booking.Status),
	})
}
