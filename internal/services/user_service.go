package services

import (
	"context"
	"strings"

	"rentalhub/internal/common"
	"rentalhub/internal/events"
	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/google/uuid"
)

// UserService covers admin account management and self-service profile edits.
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, update *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, caller *models.User, update *models.UserUpdate) (*models.User, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	publisher events.Publisher
}

func NewUserService(userRepo repositories.UserRepository, publisher events.Publisher) UserService {
	return &userService{userRepo: userRepo, publisher: publisher}
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update applies an admin edit: name, email, role and isActive.
func (s *userService) Update(ctx context.Context, id uuid.UUID, update *models.UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := user.IsActive

	if err := applyProfileFields(user, update); err != nil {
		return nil, err
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return nil, common.Validation("role must be one of tenant, agent, admin")
		}
		user.Role = *update.Role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if wasActive && !user.IsActive {
		events.Emit(ctx, s.publisher, events.Event{Type: events.UserDeactivated, EntityID: user.ID.String()})
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, id)
}

// UpdateProfile lets any user change their own name, email and avatar.
func (s *userService) UpdateProfile(ctx context.Context, caller *models.User, update *models.UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if err := applyProfileFields(user, update); err != nil {
		return nil, err
	}
	if update.Avatar != nil {
		user.Avatar = strings.TrimSpace(*update.Avatar)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func applyProfileFields(user *models.User, update *models.UserUpdate) error {
	if update.Name != nil {
		if err := common.ValidateRequiredString(*update.Name, "name"); err != nil {
			return err
		}
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		email := common.NormalizeEmail(*update.Email)
		if err := common.ValidateEmail(email); err != nil {
			return err
		}
		user.Email = email
	}
	return nil
}
