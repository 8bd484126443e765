package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"rentalhub/internal/models"
	"rentalhub/internal/repositories"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// Execer truncates the tables before seeding.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Seeder resets the store to a small demo data set.
type Seeder struct {
	db         Execer
	users      repositories.UserRepository
	properties repositories.PropertyRepository
	bookings   repositories.BookingRepository
	reviews    repositories.ReviewRepository
	hashCost   int
}

func NewSeeder(db Execer, users repositories.UserRepository, properties repositories.PropertyRepository,
	bookings repositories.BookingRepository, reviews repositories.ReviewRepository) *Seeder {
	return &Seeder{
		db:         db,
		users:      users,
		properties: properties,
		bookings:   bookings,
		reviews:    reviews,
		hashCost:   bcrypt.DefaultCost,
	}
}

type demoUser struct {
	name, email, password string
	role                  models.Role
}

var demoUsers = []demoUser{
	{"Admin User", "admin@example.com", "admin123", models.RoleAdmin},
	{"John Agent", "agent@example.com", "agent123", models.RoleAgent},
	{"Jane Tenant", "tenant@example.com", "tenant123", models.RoleTenant},
}

// Run clears every table and inserts the demo users, three listings, one
// confirmed booking and one review.
func (s *Seeder) Run(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE reviews, bookings, properties, users`); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	log.Println("Data cleared...")

	created := make(map[models.Role]*models.User, len(demoUsers))
	for _, du := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(du.password), s.hashCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", du.email, err)
		}
		user := &models.User{
			Name:         du.name,
			Email:        du.email,
			PasswordHash: string(hash),
			Role:         du.role,
			IsActive:     true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", du.email, err)
		}
		created[du.role] = user
	}
	log.Println("Users created...")

	agent, tenant := created[models.RoleAgent], created[models.RoleTenant]
	properties := []*models.Property{
		{
			Title:       "Modern Downtown Apartment",
			Description: "Beautiful 2-bedroom apartment in the heart of downtown with stunning city views.",
			Price:       2500,
			Location:    "New York, NY",
			Type:        models.PropertyTypeApartment,
			Features:    models.Features{Bedrooms: 2, Bathrooms: 2, Size: 1200},
			Images:      []string{},
			Status:      models.PropertyAvailable,
			AgentID:     agent.ID,
		},
		{
			Title:       "Cozy Studio Near Park",
			Description: "Charming studio apartment with park views and modern amenities.",
			Price:       1500,
			Location:    "San Francisco, CA",
			Type:        models.PropertyTypeStudio,
			Features:    models.Features{Bedrooms: 0, Bathrooms: 1, Size: 600},
			Images:      []string{},
			Status:      models.PropertyAvailable,
			AgentID:     agent.ID,
		},
		{
			Title:       "Luxury Villa with Pool",
			Description: "Spacious 4-bedroom villa with private pool and garden.",
			Price:       5000,
			Location:    "Los Angeles, CA",
			Type:        models.PropertyTypeVilla,
			Features:    models.Features{Bedrooms: 4, Bathrooms: 3, Size: 3000},
			Images:      []string{},
			Status:      models.PropertyAvailable,
			AgentID:     agent.ID,
		},
	}
	for _, p := range properties {
		if err := s.properties.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create property %q: %w", p.Title, err)
		}
	}
	log.Println("Properties created...")

	booking := &models.Booking{
		PropertyID:    properties[0].ID,
		TenantID:      tenant.ID,
		Amount:        2500,
		Status:        models.BookingConfirmed,
		PaymentStatus: models.PaymentCompleted,
		DateRange: models.DateRange{
			Start: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	if err := s.bookings.CreateAtomic(ctx, booking, nil); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	log.Println("Booking created...")

	review := &models.Review{
		PropertyID: properties[0].ID,
		TenantID:   tenant.ID,
		Rating:     5,
		Comment:    "Amazing apartment! Great location and very clean.",
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	log.Println("Review created...")

	log.Println("Database seeded successfully")
	for _, du := range demoUsers {
		log.Printf("%s: %s / %s", du.role, du.email, du.password)
	}
	return nil
}
