package services

import (
	"context"
	"io"
	"time"

	"rentalhub/internal/events"
	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property, status *models.PropertyStatus) error {
	args := m.Called(ctx, property, status)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListIDsByAgent(ctx context.Context, agentID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPropertyRepository) AppendImage(ctx context.Context, id uuid.UUID, objectKey string) ([]string, error) {
	args := m.Called(ctx, id, objectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

// CreateAtomic runs check against the property registered with
// checkedProperty before returning the configured error.
func (m *MockBookingRepository) CreateAtomic(ctx context.Context, booking *models.Booking, check repositories.PropertyCheck) error {
	args := m.Called(ctx, booking, check)
	if property, ok := args.Get(1).(*models.Property); ok && property != nil {
		if err := check(property); err != nil {
			return err
		}
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]*models.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, propertyIDs)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, booking *models.Booking, expected models.BookingStatus, releaseProperty bool) error {
	args := m.Called(ctx, booking, expected, releaseProperty)
	return args.Error(0)
}

func (m *MockBookingRepository) HasQualifyingBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) CompleteEnded(ctx context.Context, now time.Time) (*repositories.SweepResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.SweepResult), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context) ([]*models.Review, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Exists(ctx context.Context, propertyID, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, propertyID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetPropertyList(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, int64, bool, error) {
	args := m.Called(ctx, filter)
	var properties []*models.Property
	if args.Get(0) != nil {
		properties = args.Get(0).([]*models.Property)
	}
	return properties, args.Get(1).(int64), args.Bool(2), args.Error(3)
}

func (m *MockCacheService) SetPropertyList(ctx context.Context, generation int64, filter models.PropertyFilter, properties []*models.Property, ttl time.Duration) error {
	args := m.Called(ctx, generation, filter, properties, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidatePropertyLists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	args := m.Called(ctx, key, reader, size)
	return args.Error(0)
}

func (m *MockImageStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingPublisher keeps every published event for assertions.
type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func newUser(role models.Role) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Name:     "Test " + string(role),
		Email:    string(role) + "@example.com",
		Role:     role,
		IsActive: true,
	}
}
