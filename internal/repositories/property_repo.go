package repositories

import (
	"context"
	"fmt"
	"strings"

	"rentalhub/internal/common"
	"rentalhub/internal/models"

	"github.com/google/uuid"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error)
	Update(ctx context.Context, property *models.Property, status *models.PropertyStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListIDsByAgent(ctx context.Context, agentID uuid.UUID) ([]uuid.UUID, error)
	AppendImage(ctx context.Context, id uuid.UUID, objectKey string) ([]string, error)
}

type propertyRepo struct {
	db Database
}

func NewPropertyRepo(db Database) PropertyRepository {
	return &propertyRepo{db: db}
}

const propertySelect = `
	SELECT p.id, p.title, p.description, p.price, p.location, p.type,
		p.bedrooms, p.bathrooms, p.size, p.images, p.status, p.agent_id, p.created_at,
		COALESCE(u.name, ''), COALESCE(u.email, '')
	FROM properties p
	LEFT JOIN users u ON u.id = p.agent_id
`

func scanProperty(row interface{ Scan(dest ...any) error }) (*models.Property, error) {
	p := &models.Property{}
	var agentName, agentEmail string
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Location, &p.Type,
		&p.Features.Bedrooms, &p.Features.Bathrooms, &p.Features.Size, &p.Images, &p.Status,
		&p.AgentID, &p.CreatedAt, &agentName, &agentEmail)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if agentName != "" {
		p.Agent = &models.UserSummary{ID: p.AgentID, Name: agentName, Email: agentEmail}
	}
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	query := `
		INSERT INTO properties (id, title, description, price, location, type, bedrooms, bathrooms, size, images, status, agent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, p.ID, p.Title, p.Description, p.Price, p.Location, p.Type,
		p.Features.Bedrooms, p.Features.Bathrooms, p.Features.Size, p.Images, p.Status, p.AgentID).
		Scan(&p.CreatedAt)
	return mapError(err, "property")
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p, err := scanProperty(r.db.QueryRow(ctx, propertySelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "property")
	}
	return p, nil
}

// buildListQuery turns a filter into a WHERE clause with positional args.
func buildListQuery(filter models.PropertyFilter) (string, []any) {
	var conditions []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if loc := common.SanitizeSearchQuery(filter.Location); loc != "" {
		add("p.location ILIKE $%d", "%"+loc+"%")
	}
	if filter.Type != nil {
		add("p.type = $%d", *filter.Type)
	}
	if filter.Status != nil {
		add("p.status = $%d", *filter.Status)
	}
	if filter.MinPrice != nil {
		add("p.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("p.price <= $%d", *filter.MaxPrice)
	}
	if filter.AgentID != nil {
		add("p.agent_id = $%d", *filter.AgentID)
	}

	query := propertySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC"
	return query, args
}

func (r *propertyRepo) List(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args := buildListQuery(filter)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "property")
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, mapError(err, "property")
		}
		properties = append(properties, p)
	}
	return properties, mapError(rows.Err(), "property")
}

// Update writes the listing columns. status is written only when non-nil so
// an edit never reverts a status the booking engine set meanwhile; p.Status
// is refreshed from the stored row. agent_id is never updated.
func (r *propertyRepo) Update(ctx context.Context, p *models.Property, status *models.PropertyStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE properties
		SET title = $1, description = $2, price = $3, location = $4, type = $5,
			bedrooms = $6, bathrooms = $7, size = $8, images = $9, status = COALESCE($10, status)
		WHERE id = $11
		RETURNING status
	`
	err := r.db.QueryRow(ctx, query, p.Title, p.Description, p.Price, p.Location, p.Type,
		p.Features.Bedrooms, p.Features.Bathrooms, p.Features.Size, p.Images, status, p.ID).Scan(&p.Status)
	if err != nil {
		return mapError(err, "property")
	}
	return nil
}

func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "property")
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("property")
	}
	return nil
}

func (r *propertyRepo) ListIDsByAgent(ctx context.Context, agentID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id FROM properties WHERE agent_id = $1`, agentID)
	if err != nil {
		return nil, mapError(err, "property")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err, "property")
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err(), "property")
}

// AppendImage adds objectKey to the end of the image list and returns the new list.
func (r *propertyRepo) AppendImage(ctx context.Context, id uuid.UUID, objectKey string) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var images []string
	err := r.db.QueryRow(ctx, `UPDATE properties SET images = array_append(images, $1) WHERE id = $2 RETURNING images`, objectKey, id).
		Scan(&images)
	if err != nil {
		return nil, mapError(err, "property")
	}
	return images, nil
}
