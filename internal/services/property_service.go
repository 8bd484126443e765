package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"rentalhub/internal/caching"
	"rentalhub/internal/common"
	"rentalhub/internal/events"
	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/google/uuid"
)

const (
	listCacheTTL       = 5 * time.Minute
	imageURLExpiry     = 15 * time.Minute
	maxTitleLength     = 100
	maxDescriptionSize = 1000
)

type PropertyService interface {
	List(ctx context.Context, caller *models.User, filter models.PropertyFilter) ([]*models.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Create(ctx context.Context, caller *models.User, property *models.Property) error
	Update(ctx context.Context, caller *models.User, id uuid.UUID, update *models.PropertyUpdate) (*models.Property, error)
	Delete(ctx context.Context, caller *models.User, id uuid.UUID) error
	AgentProperties(ctx context.Context, caller *models.User) ([]*models.Property, error)

	UploadImage(ctx context.Context, caller *models.User, id uuid.UUID, filename string, reader io.Reader, size int64) ([]string, error)
	ImageURLs(ctx context.Context, id uuid.UUID) ([]string, error)
}

type propertyService struct {
	propertyRepo repositories.PropertyRepository
	images       ImageStore
	cacheService caching.CacheService
	publisher    events.Publisher
}

func NewPropertyService(propertyRepo repositories.PropertyRepository, images ImageStore, cacheService caching.CacheService, publisher events.Publisher) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		images:       images,
		cacheService: cacheService,
		publisher:    publisher,
	}
}

// List returns properties matching filter, newest first. Callers who may
// not see every status only get available listings unless they ask for a
// status explicitly.
func (s *propertyService) List(ctx context.Context, caller *models.User, filter models.PropertyFilter) ([]*models.Property, error) {
	if filter.Status == nil && !CanViewAllPropertyStatuses(caller) {
		available := models.PropertyAvailable
		filter.Status = &available
	}
	filter.Location = common.SanitizeSearchQuery(filter.Location)

	var generation int64
	if s.cacheService != nil {
		cached, gen, hit, err := s.cacheService.GetPropertyList(ctx, filter)
		if err != nil {
			log.Printf("WARN: listing cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
		generation = gen
	}

	properties, err := s.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.SetPropertyList(ctx, generation, filter, properties, listCacheTTL); err != nil {
			log.Printf("WARN: listing cache write failed: %v", err)
		}
	}
	return properties, nil
}

func (s *propertyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

func (s *propertyService) Create(ctx context.Context, caller *models.User, property *models.Property) error {
	if !CanCreateProperty(caller) {
		return common.Forbidden("user role '%s' is not authorized to create properties", roleOf(caller))
	}
	if property.Status == "" {
		property.Status = models.PropertyAvailable
	}
	if property.Images == nil {
		property.Images = []string{}
	}
	if err := validateProperty(property); err != nil {
		return err
	}

	property.ID = uuid.New()
	property.AgentID = caller.ID
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return err
	}

	s.listingsChanged(ctx, events.PropertyCreated, property)
	return nil
}

func (s *propertyService) Update(ctx context.Context, caller *models.User, id uuid.UUID, update *models.PropertyUpdate) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageProperty(caller, property) {
		return nil, common.Forbidden("not authorized to update this property")
	}

	if update.Title != nil {
		property.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		property.Description = *update.Description
	}
	if update.Price != nil {
		property.Price = *update.Price
	}
	if update.Location != nil {
		property.Location = strings.TrimSpace(*update.Location)
	}
	if update.Type != nil {
		property.Type = *update.Type
	}
	if update.Features != nil {
		property.Features = *update.Features
	}
	if update.Images != nil {
		property.Images = update.Images
	}
	if update.Status != nil {
		property.Status = *update.Status
	}
	if err := validateProperty(property); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.Update(ctx, property, update.Status); err != nil {
		return nil, err
	}

	s.listingsChanged(ctx, events.PropertyUpdated, property)
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CanManageProperty(caller, property) {
		return common.Forbidden("not authorized to delete this property")
	}

	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, key := range property.Images {
		if err := s.images.Remove(ctx, key); err != nil {
			log.Printf("WARN: failed to delete image %s: %v", key, err)
		}
	}
	s.listingsChanged(ctx, events.PropertyDeleted, property)
	return nil
}

// AgentProperties lists every property the caller owns, whatever its status.
func (s *propertyService) AgentProperties(ctx context.Context, caller *models.User) ([]*models.Property, error) {
	agentID := caller.ID
	return s.propertyRepo.List(ctx, models.PropertyFilter{AgentID: &agentID})
}

// UploadImage stores the image under properties/<id>/ and appends its object
// key to the property's image list.
func (s *propertyService) UploadImage(ctx context.Context, caller *models.User, id uuid.UUID, filename string, reader io.Reader, size int64) ([]string, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageProperty(caller, property) {
		return nil, common.Forbidden("not authorized to update this property")
	}

	objectName, err := PropertyImageKey(id, filename)
	if err != nil {
		return nil, err
	}
	if err := s.images.Put(ctx, objectName, reader, size); err != nil {
		return nil, common.Unavailable(fmt.Errorf("failed to upload image: %w", err))
	}

	images, err := s.propertyRepo.AppendImage(ctx, id, objectName)
	if err != nil {
		if delErr := s.images.Remove(ctx, objectName); delErr != nil {
			log.Printf("WARN: failed to remove orphaned image %s: %v", objectName, delErr)
		}
		return nil, err
	}

	property.Images = images
	s.listingsChanged(ctx, events.PropertyUpdated, property)
	return images, nil
}

// ImageURLs presigns every stored image in display order.
func (s *propertyService) ImageURLs(ctx context.Context, id uuid.UUID) ([]string, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(property.Images))
	for _, key := range property.Images {
		url, err := s.images.PresignGet(ctx, key, imageURLExpiry)
		if err != nil {
			return nil, common.Unavailable(fmt.Errorf("failed to presign image %s: %w", key, err))
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *propertyService) listingsChanged(ctx context.Context, eventType string, property *models.Property) {
	invalidateListings(ctx, s.cacheService)
	events.Emit(ctx, s.publisher, events.Event{
		Type:       eventType,
		EntityID:   property.ID.String(),
		PropertyID: property.ID.String(),
		Status:     string(property.Status),
	})
}

func invalidateListings(ctx context.Context, cacheService caching.CacheService) {
	if cacheService == nil {
		return
	}
	if err := cacheService.InvalidatePropertyLists(ctx); err != nil {
		log.Printf("WARN: listing cache invalidation failed: %v", err)
	}
}

func validateProperty(p *models.Property) error {
	if err := common.ValidateRequiredString(p.Title, "title"); err != nil {
		return err
	}
	if err := common.ValidateMaxLength(p.Title, "title", maxTitleLength); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(p.Description, "description"); err != nil {
		return err
	}
	if err := common.ValidateMaxLength(p.Description, "description", maxDescriptionSize); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(p.Location, "location"); err != nil {
		return err
	}
	if err := common.ValidateNonNegative(p.Price, "price"); err != nil {
		return err
	}
	if !p.Type.Valid() {
		return common.Validation("type must be one of apartment, house, condo, studio, villa, other")
	}
	if !p.Status.Valid() {
		return common.Validation("status must be one of available, booked, inactive")
	}
	if err := common.ValidateNonNegative(p.Features.Bedrooms, "bedrooms"); err != nil {
		return err
	}
	if err := common.ValidateNonNegative(p.Features.Bathrooms, "bathrooms"); err != nil {
		return err
	}
	return common.ValidateNonNegative(p.Features.Size, "size")
}

func roleOf(user *models.User) models.Role {
	if user == nil {
		return ""
	}
	return user.Role
}
