package repositories

import (
	"context"

	"rentalhub/internal/common"
	"rentalhub/internal/models"

	"github.com/google/uuid"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	List(ctx context.Context) ([]*models.Review, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error)
	Exists(ctx context.Context, propertyID, tenantID uuid.UUID) (bool, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepo struct {
	db Database
}

func NewReviewRepo(db Database) ReviewRepository {
	return &reviewRepo{db: db}
}

const reviewSelect = `
	SELECT r.id, r.property_id, r.tenant_id, r.rating, r.comment, r.created_at,
		COALESCE(u.name, ''), COALESCE(u.avatar, ''), COALESCE(p.title, '')
	FROM reviews r
	LEFT JOIN users u ON u.id = r.tenant_id
	LEFT JOIN properties p ON p.id = r.property_id
`

func scanReview(row interface{ Scan(dest ...any) error }) (*models.Review, error) {
	rv := &models.Review{}
	var tenantName, tenantAvatar, propertyTitle string
	err := row.Scan(&rv.ID, &rv.PropertyID, &rv.TenantID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
		&tenantName, &tenantAvatar, &propertyTitle)
	if err != nil {
		return nil, err
	}
	if tenantName != "" {
		rv.Tenant = &models.UserSummary{ID: rv.TenantID, Name: tenantName, Avatar: tenantAvatar}
	}
	if propertyTitle != "" {
		rv.Property = &models.PropertySummary{ID: rv.PropertyID, Title: propertyTitle}
	}
	return rv, nil
}

// Create inserts the review. The unique (property_id, tenant_id) index turns
// a concurrent duplicate into a conflict.
func (r *reviewRepo) Create(ctx context.Context, rv *models.Review) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	query := `
		INSERT INTO reviews (id, property_id, tenant_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, rv.ID, rv.PropertyID, rv.TenantID, rv.Rating, rv.Comment).Scan(&rv.CreatedAt)
	return mapError(err, "review")
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rv, err := scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "review")
	}
	return rv, nil
}

func (r *reviewRepo) List(ctx context.Context) ([]*models.Review, error) {
	return r.list(ctx, reviewSelect+` ORDER BY r.created_at DESC`)
}

func (r *reviewRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.Review, error) {
	return r.list(ctx, reviewSelect+` WHERE r.property_id = $1 ORDER BY r.created_at DESC`, propertyID)
}

func (r *reviewRepo) list(ctx context.Context, query string, args ...any) ([]*models.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "review")
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, mapError(err, "review")
		}
		reviews = append(reviews, rv)
	}
	return reviews, mapError(rows.Err(), "review")
}

func (r *reviewRepo) Exists(ctx context.Context, propertyID, tenantID uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE property_id = $1 AND tenant_id = $2)`,
		propertyID, tenantID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "review")
	}
	return exists, nil
}

func (r *reviewRepo) Update(ctx context.Context, rv *models.Review) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE reviews SET rating = $1, comment = $2 WHERE id = $3`, rv.Rating, rv.Comment, rv.ID)
	if err != nil {
		return mapError(err, "review")
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("review")
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "review")
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("review")
	}
	return nil
}
