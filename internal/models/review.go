package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

type Review struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	PropertyID uuid.UUID        `json:"propertyId" db:"property_id"`
	TenantID   uuid.UUID        `json:"tenantId" db:"tenant_id"`
	Rating     int              `json:"rating" db:"rating"`
	Comment    string           `json:"comment" db:"comment"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	Tenant     *UserSummary     `json:"tenant,omitempty" db:"-"`
	Property   *PropertySummary `json:"property,omitempty" db:"-"`
}

type ReviewUpdate struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// PropertyReviews is the public review listing for one property.
type PropertyReviews struct {
	Reviews       []*Review `json:"reviews"`
	AverageRating float64   `json:"avgRating"`
}

// AverageRating returns the arithmetic mean rounded to one decimal, or 0 for
// no reviews.
func AverageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}
