package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"rentalhub/internal/common"
	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) List(ctx context.Context, caller *models.User, filter models.PropertyFilter) ([]*models.Property, error) {
	args := m.Called(ctx, caller, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Create(ctx context.Context, caller *models.User, property *models.Property) error {
	args := m.Called(ctx, caller, property)
	return args.Error(0)
}

func (m *MockPropertyService) Update(ctx context.Context, caller *models.User, id uuid.UUID, update *models.PropertyUpdate) (*models.Property, error) {
	args := m.Called(ctx, caller, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockPropertyService) AgentProperties(ctx context.Context, caller *models.User) ([]*models.Property, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyService) UploadImage(ctx context.Context, caller *models.User, id uuid.UUID, filename string, reader io.Reader, size int64) ([]string, error) {
	args := m.Called(ctx, caller, id, filename, reader, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPropertyService) ImageURLs(ctx context.Context, id uuid.UUID) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, caller *models.User, req *models.BookingRequest) (*models.Booking, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context) ([]*models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) ListForTenant(ctx context.Context, caller *models.User) ([]*models.Booking, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) ListForAgent(ctx context.Context, caller *models.User) ([]*models.Booking, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetByID(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, update *models.BookingStatusUpdate) (*models.Booking, error) {
	args := m.Called(ctx, caller, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, caller *models.User, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockBookingService) CompleteEnded(ctx context.Context, now time.Time) (*repositories.SweepResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.SweepResult), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, caller *models.User, review *models.Review) error {
	args := m.Called(ctx, caller, review)
	return args.Error(0)
}

func (m *MockReviewService) PropertyReviews(ctx context.Context, propertyID uuid.UUID) (*models.PropertyReviews, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyReviews), args.Error(1)
}

func (m *MockReviewService) List(ctx context.Context) ([]*models.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, caller *models.User, id uuid.UUID, update *models.ReviewUpdate) (*models.Review, error) {
	args := m.Called(ctx, caller, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetPropertyList(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, int64, bool, error) {
	args := m.Called(ctx, filter)
	return nil, 0, false, args.Error(0)
}

func (m *MockCacheService) SetPropertyList(ctx context.Context, generation int64, filter models.PropertyFilter, properties []*models.Property, ttl time.Duration) error {
	return m.Called(ctx, generation, filter, properties, ttl).Error(0)
}

func (m *MockCacheService) InvalidatePropertyLists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

var errDown = errors.New("connection refused")

// stubUserRepo serves GetByID from a fixed set of users.
type stubUserRepo struct {
	repositories.UserRepository
	users map[uuid.UUID]*models.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, common.NotFound("user")
}

func (r *stubUserRepo) SetRefreshTokenHash(context.Context, uuid.UUID, *string) error { return nil }
