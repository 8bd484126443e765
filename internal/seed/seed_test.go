package seed

import (
	"context"
	"errors"
	"testing"

	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingExecer struct {
	statements []string
	err        error
}

func (e *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	e.statements = append(e.statements, sql)
	return pgconn.CommandTag{}, e.err
}

type fakeUsers struct {
	repositories.UserRepository
	created []*models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	u.ID = uuid.New()
	f.created = append(f.created, u)
	return nil
}

type fakeProperties struct {
	repositories.PropertyRepository
	created []*models.Property
}

func (f *fakeProperties) Create(_ context.Context, p *models.Property) error {
	p.ID = uuid.New()
	f.created = append(f.created, p)
	return nil
}

type fakeBookings struct {
	repositories.BookingRepository
	created []*models.Booking
}

func (f *fakeBookings) CreateAtomic(_ context.Context, b *models.Booking, _ repositories.PropertyCheck) error {
	f.created = append(f.created, b)
	return nil
}

type fakeReviews struct {
	repositories.ReviewRepository
	created []*models.Review
}

func (f *fakeReviews) Create(_ context.Context, r *models.Review) error {
	f.created = append(f.created, r)
	return nil
}

func TestSeeder_Run(t *testing.T) {
	db := &recordingExecer{}
	users, properties := &fakeUsers{}, &fakeProperties{}
	bookings, reviews := &fakeBookings{}, &fakeReviews{}
	s := NewSeeder(db, users, properties, bookings, reviews)
	s.hashCost = bcrypt.MinCost

	require.NoError(t, s.Run(context.Background()))

	require.Len(t, db.statements, 1)
	assert.Contains(t, db.statements[0], "TRUNCATE")

	require.Len(t, users.created, 3)
	for i, u := range users.created {
		assert.Equal(t, demoUsers[i].role, u.Role)
		assert.True(t, u.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(demoUsers[i].password)))
	}
	agent, tenant := users.created[1], users.created[2]

	require.Len(t, properties.created, 3)
	for _, p := range properties.created {
		assert.Equal(t, agent.ID, p.AgentID)
		assert.Equal(t, models.PropertyAvailable, p.Status)
	}

	require.Len(t, bookings.created, 1)
	b := bookings.created[0]
	assert.Equal(t, properties.created[0].ID, b.PropertyID)
	assert.Equal(t, tenant.ID, b.TenantID)
	assert.True(t, b.DateRange.Valid())

	require.Len(t, reviews.created, 1)
	assert.Equal(t, 5, reviews.created[0].Rating)
}

func TestSeeder_StopsWhenTruncateFails(t *testing.T) {
	db := &recordingExecer{err: errors.New("permission denied")}
	users := &fakeUsers{}
	s := NewSeeder(db, users, &fakeProperties{}, &fakeBookings{}, &fakeReviews{})

	assert.Error(t, s.Run(context.Background()))
	assert.Empty(t, users.created)
}
