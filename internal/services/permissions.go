package services

import (
	"rentalhub/internal/models"

	"github.com/google/uuid"
)

// Capability checks. Each is a pure function of the caller's role and
// ownership so handlers and services never branch on role themselves.

func isAdmin(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

func hasRole(user *models.User, roles ...models.Role) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// CanCreateProperty allows agents and admins to list properties.
func CanCreateProperty(user *models.User) bool {
	return hasRole(user, models.RoleAgent, models.RoleAdmin)
}

// CanManageProperty allows the owning agent or any admin to edit or delete.
func CanManageProperty(user *models.User, property *models.Property) bool {
	if isAdmin(user) {
		return true
	}
	return hasRole(user, models.RoleAgent) && property.AgentID == user.ID
}

// CanViewAllPropertyStatuses reports whether unfiltered listings may include
// booked and inactive properties.
func CanViewAllPropertyStatuses(user *models.User) bool {
	return isAdmin(user)
}

func CanCreateBooking(user *models.User) bool {
	return hasRole(user, models.RoleTenant)
}

// CanReadBooking scopes single-booking reads. propertyAgentID is the owner of
// the booked property.
func CanReadBooking(user *models.User, booking *models.Booking, propertyAgentID uuid.UUID) bool {
	switch {
	case isAdmin(user):
		return true
	case hasRole(user, models.RoleTenant):
		return booking.TenantID == user.ID
	case hasRole(user, models.RoleAgent):
		return propertyAgentID == user.ID
	}
	return false
}

// CanUpdateBookingStatus allows the agent owning the booked property or an admin.
func CanUpdateBookingStatus(user *models.User, propertyAgentID uuid.UUID) bool {
	if isAdmin(user) {
		return true
	}
	return hasRole(user, models.RoleAgent) && propertyAgentID == user.ID
}

// CanCancelBooking allows only the booking's tenant.
func CanCancelBooking(user *models.User, booking *models.Booking) bool {
	return user != nil && booking.TenantID == user.ID
}

func CanCreateReview(user *models.User) bool {
	return hasRole(user, models.RoleTenant)
}

// CanUpdateReview allows only the authoring tenant.
func CanUpdateReview(user *models.User, review *models.Review) bool {
	return user != nil && review.TenantID == user.ID
}

// CanDeleteReview allows the authoring tenant or an admin.
func CanDeleteReview(user *models.User, review *models.Review) bool {
	return isAdmin(user) || CanUpdateReview(user, review)
}

func CanManageUsers(user *models.User) bool {
	return isAdmin(user)
}
