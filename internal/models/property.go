package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeOther     PropertyType = "other"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeCondo,
		PropertyTypeStudio, PropertyTypeVilla, PropertyTypeOther:
		return true
	}
	return false
}

type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyBooked    PropertyStatus = "booked"
	PropertyInactive  PropertyStatus = "inactive"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertyBooked, PropertyInactive:
		return true
	}
	return false
}

type Features struct {
	Bedrooms  int     `json:"bedrooms" db:"bedrooms"`
	Bathrooms int     `json:"bathrooms" db:"bathrooms"`
	Size      float64 `json:"size" db:"size"`
}

type Property struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Price       float64        `json:"price" db:"price"`
	Location    string         `json:"location" db:"location"`
	Type        PropertyType   `json:"type" db:"type"`
	Features    Features       `json:"features"`
	Images      []string       `json:"images" db:"images"` // object keys, in display order
	Status      PropertyStatus `json:"status" db:"status"`
	AgentID     uuid.UUID      `json:"agentId" db:"agent_id"`
	Agent       *UserSummary   `json:"agent,omitempty" db:"-"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// Summary returns the projection embedded in booking and review reads.
func (p *Property) Summary() *PropertySummary {
	return &PropertySummary{ID: p.ID, Title: p.Title, Location: p.Location, Price: p.Price}
}

type PropertySummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location,omitempty"`
	Price    float64   `json:"price,omitempty"`
}

// PropertyFilter holds listing query criteria. Zero values mean "no filter".
type PropertyFilter struct {
	Location string          `json:"location,omitempty"` // case-insensitive substring
	Type     *PropertyType   `json:"type,omitempty"`
	Status   *PropertyStatus `json:"status,omitempty"`
	MinPrice *float64        `json:"minPrice,omitempty"`
	MaxPrice *float64        `json:"maxPrice,omitempty"`
	AgentID  *uuid.UUID      `json:"agentId,omitempty"`
}

// PropertyUpdate carries a partial update. AgentID is deliberately absent.
type PropertyUpdate struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Location    *string         `json:"location"`
	Type        *PropertyType   `json:"type"`
	Features    *Features       `json:"features"`
	Images      []string        `json:"images"`
	Status      *PropertyStatus `json:"status"`
}
