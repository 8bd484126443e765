package testhelpers

import (
	"context"
	"os"
	"testing"

	"rentalhub/internal/models"
	"rentalhub/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// the tables. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
	}
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if _, err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE reviews, bookings, properties, users`); err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestUser inserts an active user with the given role.
func SetupTestUser(t *testing.T, db *TestDB, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test " + string(role),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	query := `
		INSERT INTO users (id, name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := db.Pool.Exec(context.Background(), query, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.IsActive)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SetupTestProperty inserts an available property owned by agentID.
func SetupTestProperty(t *testing.T, db *TestDB, agentID uuid.UUID, price float64) *models.Property {
	t.Helper()

	property := &models.Property{
		ID:          uuid.New(),
		Title:       "Test Property",
		Description: "Test description",
		Price:       price,
		Location:    "Test City",
		Type:        models.PropertyTypeApartment,
		Images:      []string{},
		Status:      models.PropertyAvailable,
		AgentID:     agentID,
	}
	query := `
		INSERT INTO properties (id, title, description, price, location, type, status, agent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := db.Pool.Exec(context.Background(), query, property.ID, property.Title, property.Description,
		property.Price, property.Location, property.Type, property.Status, property.AgentID)
	if err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}
	return property
}

func floatPtr(f float64) *float64 {
	return &f
}
