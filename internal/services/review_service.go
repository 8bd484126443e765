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

type ReviewService interface {
	Create(ctx context.Context, caller *models.User, review *models.Review) error
	PropertyReviews(ctx context.Context, propertyID uuid.UUID) (*models.PropertyReviews, error)
	List(ctx context.Context) ([]*models.Review, error)
	Update(ctx context.Context, caller *models.User, id uuid.UUID, update *models.ReviewUpdate) (*models.Review, error)
	Delete(ctx context.Context, caller *models.User, id uuid.UUID) error
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	bookingRepo repositories.BookingRepository
	publisher   events.Publisher
}

func NewReviewService(reviewRepo repositories.ReviewRepository, bookingRepo repositories.BookingRepository, publisher events.Publisher) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, bookingRepo: bookingRepo, publisher: publisher}
}

// Create records a review. The tenant must hold a confirmed or completed
// booking for the property and may review it only once.
func (s *reviewService) Create(ctx context.Context, caller *models.User, review *models.Review) error {
	if !CanCreateReview(caller) {
		return common.Forbidden("user role '%s' is not authorized to create reviews", roleOf(caller))
	}
	if review.PropertyID == uuid.Nil {
		return common.Validation("propertyId is required")
	}
	review.Comment = strings.TrimSpace(review.Comment)
	if err := validateReview(review.Rating, review.Comment); err != nil {
		return err
	}

	booked, err := s.bookingRepo.HasQualifyingBooking(ctx, caller.ID, review.PropertyID)
	if err != nil {
		return err
	}
	if !booked {
		return common.Precondition("you must book this property before reviewing")
	}

	exists, err := s.reviewRepo.Exists(ctx, review.PropertyID, caller.ID)
	if err != nil {
		return err
	}
	if exists {
		return common.Conflict("you have already reviewed this property")
	}

	review.ID = uuid.New()
	review.TenantID = caller.ID
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return err
	}

	events.Emit(ctx, s.publisher, events.Event{
		Type:       events.ReviewCreated,
		EntityID:   review.ID.String(),
		PropertyID: review.PropertyID.String(),
	})
	return nil
}

// PropertyReviews returns the property's reviews, newest first, and their
// mean rating.
func (s *reviewService) PropertyReviews(ctx context.Context, propertyID uuid.UUID) (*models.PropertyReviews, error) {
	reviews, err := s.reviewRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	return &models.PropertyReviews{
		Reviews:       reviews,
		AverageRating: models.AverageRating(reviews),
	}, nil
}

func (s *reviewService) List(ctx context.Context) ([]*models.Review, error) {
	return s.reviewRepo.List(ctx)
}

func (s *reviewService) Update(ctx context.Context, caller *models.User, id uuid.UUID, update *models.ReviewUpdate) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanUpdateReview(caller, review) {
		return nil, common.Forbidden("not authorized to update this review")
	}

	if update.Rating != nil {
		review.Rating = *update.Rating
	}
	if update.Comment != nil {
		review.Comment = strings.TrimSpace(*update.Comment)
	}
	if err := validateReview(review.Rating, review.Comment); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanDeleteReview(caller, review) {
		return common.Forbidden("not authorized to delete this review")
	}
	return s.reviewRepo.Delete(ctx, id)
}

func validateReview(rating int, comment string) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return common.Validation("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if err := common.ValidateRequiredString(comment, "comment"); err != nil {
		return err
	}
	return common.ValidateMaxLength(comment, "comment", models.MaxCommentLength)
}
