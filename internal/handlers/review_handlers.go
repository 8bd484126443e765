package handlers

import (
	"net/http"

	"rentalhub/internal/common"
	"rentalhub/internal/models"
	"rentalhub/internal/services"

	"github.com/labstack/echo/v4"
)

// ReviewHandlers handles HTTP requests for reviews
type ReviewHandlers struct {
	reviewService services.ReviewService
}

// NewReviewHandlers creates a new review handlers instance
func NewReviewHandlers(reviewService services.ReviewService) *ReviewHandlers {
	return &ReviewHandlers{reviewService: reviewService}
}

type CreateReviewRequest struct {
	PropertyID string `json:"propertyId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (h *ReviewHandlers) CreateReview(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	propertyID, err := common.ValidateUUID(req.PropertyID, "propertyId")
	if err != nil {
		return err
	}

	review := &models.Review{PropertyID: propertyID, Rating: req.Rating, Comment: req.Comment}
	if err := h.reviewService.Create(c.Request().Context(), caller, review); err != nil {
		return err
	}
	return common.SendData(c, http.StatusCreated, review)
}

// PropertyReviews lists a property's reviews with their average rating.
func (h *ReviewHandlers) PropertyReviews(c echo.Context) error {
	propertyID, err := pathUUID(c, "propertyId")
	if err != nil {
		return err
	}

	result, err := h.reviewService.PropertyReviews(c.Request().Context(), propertyID)
	if err != nil {
		return err
	}
	count := len(result.Reviews)
	return c.JSON(http.StatusOK, common.Response{
		Success:   true,
		Data:      result.Reviews,
		Count:     &count,
		AvgRating: &result.AverageRating,
	})
}

func (h *ReviewHandlers) ListReviews(c echo.Context) error {
	reviews, err := h.reviewService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return common.SendList(c, reviews)
}

func (h *ReviewHandlers) UpdateReview(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req models.ReviewUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Update(c.Request().Context(), caller, id, &req)
	if err != nil {
		return err
	}
	return common.SendData(c, http.StatusOK, review)
}

func (h *ReviewHandlers) DeleteReview(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.reviewService.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return common.SendMessage(c, "Review deleted successfully")
}
