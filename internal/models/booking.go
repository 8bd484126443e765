package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves this status.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransitionTo reports whether the booking state machine allows s -> next.
// Re-applying the current status is treated as a no-op and allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type DateRange struct {
	Start time.Time `json:"start" db:"start_date"`
	End   time.Time `json:"end" db:"end_date"`
}

// Valid reports whether Start is strictly before End.
func (d DateRange) Valid() bool {
	return d.Start.Before(d.End)
}

type Booking struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	PropertyID    uuid.UUID        `json:"propertyId" db:"property_id"`
	TenantID      uuid.UUID        `json:"tenantId" db:"tenant_id"`
	Amount        float64          `json:"amount" db:"amount"`
	DateRange     DateRange        `json:"dateRange"`
	Status        BookingStatus    `json:"status" db:"status"`
	PaymentStatus PaymentStatus    `json:"paymentStatus" db:"payment_status"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	Property      *PropertySummary `json:"property,omitempty" db:"-"`
	Tenant        *UserSummary     `json:"tenant,omitempty" db:"-"`
}

// BookingRequest is the tenant-supplied input to booking creation.
type BookingRequest struct {
	PropertyID uuid.UUID `json:"propertyId"`
	DateRange  DateRange `json:"dateRange"`
	Amount     *float64  `json:"amount"`
}

// BookingStatusUpdate is a partial status/payment update; at least one field
// must be set.
type BookingStatusUpdate struct {
	Status        *BookingStatus `json:"status"`
	PaymentStatus *PaymentStatus `json:"paymentStatus"`
}
