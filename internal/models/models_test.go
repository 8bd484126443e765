package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func feb(d int) time.Time {
	return time.Date(2025, 2, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange_Valid(t *testing.T) {
	assert.True(t, DateRange{Start: feb(1), End: feb(2)}.Valid())
	assert.False(t, DateRange{Start: feb(2), End: feb(2)}.Valid())
	assert.False(t, DateRange{Start: feb(3), End: feb(2)}.Valid())
}

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	allowed := map[[2]BookingStatus]bool{
		{BookingPending, BookingConfirmed}:   true,
		{BookingPending, BookingCancelled}:   true,
		{BookingConfirmed, BookingCompleted}: true,
		{BookingConfirmed, BookingCancelled}: true,
	}
	all := []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}
	for _, from := range all {
		for _, to := range all {
			want := from == to || allowed[[2]BookingStatus{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.True(t, BookingCompleted.Terminal())
	assert.True(t, BookingCancelled.Terminal())
	assert.False(t, BookingConfirmed.Terminal())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, BookingStatus("confirmed").Valid())
	assert.False(t, BookingStatus("archived").Valid())
	assert.True(t, PaymentStatus("refunded").Valid())
	assert.False(t, PaymentStatus("partial").Valid())
	assert.True(t, Role("agent").Valid())
	assert.False(t, Role("owner").Valid())
	assert.True(t, PropertyType("villa").Valid())
	assert.False(t, PropertyType("castle").Valid())
	assert.True(t, PropertyStatus("inactive").Valid())
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 4.3, AverageRating([]*Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}))
	assert.Equal(t, 3.5, AverageRating([]*Review{{Rating: 3}, {Rating: 4}}))
}
