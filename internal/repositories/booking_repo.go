package repositories

import (
	"context"
	"time"

	"rentalhub/internal/common"
	"rentalhub/internal/models"

	"github.com/google/uuid"
)

// PropertyCheck inspects the locked property before a booking is inserted.
type PropertyCheck func(property *models.Property) error

// SweepResult lists the rows touched by CompleteEnded.
type SweepResult struct {
	Completed []uuid.UUID
	Released  []uuid.UUID
}

type BookingRepository interface {
	CreateAtomic(ctx context.Context, booking *models.Booking, check PropertyCheck) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Booking, error)
	ListByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, booking *models.Booking, expected models.BookingStatus, releaseProperty bool) error
	HasQualifyingBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error)
	CompleteEnded(ctx context.Context, now time.Time) (*SweepResult, error)
}

type bookingRepo struct {
	db Database
}

func NewBookingRepo(db Database) BookingRepository {
	return &bookingRepo{db: db}
}

const bookingSelect = `
	SELECT b.id, b.property_id, b.tenant_id, b.amount, b.start_date, b.end_date,
		b.status, b.payment_status, b.created_at,
		COALESCE(p.title, ''), COALESCE(p.location, ''), COALESCE(p.price, 0),
		COALESCE(u.name, ''), COALESCE(u.email, '')
	FROM bookings b
	LEFT JOIN properties p ON p.id = b.property_id
	LEFT JOIN users u ON u.id = b.tenant_id
`

func scanBooking(row interface{ Scan(dest ...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	var title, location, tenantName, tenantEmail string
	var price float64
	err := row.Scan(&b.ID, &b.PropertyID, &b.TenantID, &b.Amount, &b.DateRange.Start, &b.DateRange.End,
		&b.Status, &b.PaymentStatus, &b.CreatedAt, &title, &location, &price, &tenantName, &tenantEmail)
	if err != nil {
		return nil, err
	}
	if title != "" {
		b.Property = &models.PropertySummary{ID: b.PropertyID, Title: title, Location: location, Price: price}
	}
	if tenantName != "" {
		b.Tenant = &models.UserSummary{ID: b.TenantID, Name: tenantName, Email: tenantEmail}
	}
	return b, nil
}

// CreateAtomic locks the property row, runs check against it, rejects
// overlapping pending/confirmed bookings, inserts the booking and marks the
// property booked. All of it commits or none of it does.
func (r *bookingRepo) CreateAtomic(ctx context.Context, b *models.Booking, check PropertyCheck) (err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapError(err, "booking")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	property := &models.Property{}
	err = tx.QueryRow(ctx, `
		SELECT id, title, location, price, status
		FROM properties
		WHERE id = $1
		FOR UPDATE
	`, b.PropertyID).Scan(&property.ID, &property.Title, &property.Location, &property.Price, &property.Status)
	if err != nil {
		return mapError(err, "property")
	}

	if check != nil {
		if err = check(property); err != nil {
			return err
		}
	}

	// Inclusive overlap: existing.start <= new.end AND existing.end >= new.start.
	var overlapping bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE property_id = $1
				AND status IN ('pending', 'confirmed')
				AND start_date <= $3
				AND end_date >= $2
		)
	`, b.PropertyID, b.DateRange.Start, b.DateRange.End).Scan(&overlapping)
	if err != nil {
		return mapError(err, "booking")
	}
	if overlapping {
		err = common.Conflict("property is already booked for the selected dates")
		return err
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO bookings (id, property_id, tenant_id, amount, start_date, end_date, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, b.ID, b.PropertyID, b.TenantID, b.Amount, b.DateRange.Start, b.DateRange.End, b.Status, b.PaymentStatus).
		Scan(&b.CreatedAt)
	if err != nil {
		return mapError(err, "booking")
	}

	if _, err = tx.Exec(ctx, `UPDATE properties SET status = $1 WHERE id = $2`, models.PropertyBooked, b.PropertyID); err != nil {
		return mapError(err, "property")
	}

	if err = tx.Commit(ctx); err != nil {
		return mapError(err, "booking")
	}

	b.Property = property.Summary()
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	b, err := scanBooking(r.db.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "booking")
	}
	return b, nil
}

func (r *bookingRepo) List(ctx context.Context) ([]*models.Booking, error) {
	return r.list(ctx, bookingSelect+` ORDER BY b.created_at DESC`)
}

func (r *bookingRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.tenant_id = $1 ORDER BY b.created_at DESC`, tenantID)
}

func (r *bookingRepo) ListByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) ([]*models.Booking, error) {
	if len(propertyIDs) == 0 {
		return []*models.Booking{}, nil
	}
	return r.list(ctx, bookingSelect+` WHERE b.property_id = ANY($1) ORDER BY b.created_at DESC`, propertyIDs)
}

func (r *bookingRepo) list(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "booking")
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mapError(err, "booking")
		}
		bookings = append(bookings, b)
	}
	return bookings, mapError(rows.Err(), "booking")
}

// UpdateStatus persists the booking's status and payment status only while
// the stored status still equals expected. A booking changed since it was
// read is a Conflict. When releaseProperty is set the property returns to
// available in the same transaction.
func (r *bookingRepo) UpdateStatus(ctx context.Context, b *models.Booking, expected models.BookingStatus, releaseProperty bool) (err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapError(err, "booking")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `UPDATE bookings SET status = $1, payment_status = $2 WHERE id = $3 AND status = $4`,
		b.Status, b.PaymentStatus, b.ID, expected)
	if err != nil {
		return mapError(err, "booking")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, b.ID).Scan(&exists); err != nil {
			return mapError(err, "booking")
		}
		if !exists {
			return common.NotFound("booking")
		}
		return common.Conflict("booking status changed from %s, reload and retry", expected)
	}

	if releaseProperty {
		if _, err = tx.Exec(ctx, `UPDATE properties SET status = $1 WHERE id = $2`, models.PropertyAvailable, b.PropertyID); err != nil {
			return mapError(err, "property")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return mapError(err, "booking")
	}
	return nil
}

// HasQualifyingBooking reports whether the tenant holds a confirmed or
// completed booking for the property.
func (r *bookingRepo) HasQualifyingBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE tenant_id = $1 AND property_id = $2 AND status IN ('confirmed', 'completed')
		)
	`, tenantID, propertyID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "booking")
	}
	return exists, nil
}

// CompleteEnded marks confirmed bookings whose end date is before now as
// completed and releases their properties when nothing else holds them.
func (r *bookingRepo) CompleteEnded(ctx context.Context, now time.Time) (result *SweepResult, err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, mapError(err, "booking")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	result = &SweepResult{}
	rows, err := tx.Query(ctx, `
		UPDATE bookings SET status = 'completed'
		WHERE status = 'confirmed' AND end_date < $1
		RETURNING id, property_id
	`, now)
	if err != nil {
		return nil, mapError(err, "booking")
	}
	var propertyIDs []uuid.UUID
	for rows.Next() {
		var id, propertyID uuid.UUID
		if err = rows.Scan(&id, &propertyID); err != nil {
			rows.Close()
			return nil, mapError(err, "booking")
		}
		result.Completed = append(result.Completed, id)
		propertyIDs = append(propertyIDs, propertyID)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, mapError(err, "booking")
	}

	if len(propertyIDs) > 0 {
		result.Released, err = releaseIdleProperties(ctx, tx, propertyIDs)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, mapError(err, "booking")
	}
	return result, nil
}

func releaseIdleProperties(ctx context.Context, q querier, propertyIDs []uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		UPDATE properties p SET status = 'available'
		WHERE p.id = ANY($1)
			AND p.status = 'booked'
			AND NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.property_id = p.id AND b.status IN ('pending', 'confirmed')
			)
		RETURNING p.id
	`, propertyIDs)
	if err != nil {
		return nil, mapError(err, "property")
	}
	defer rows.Close()

	var released []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err, "property")
		}
		released = append(released, id)
	}
	return released, mapError(rows.Err(), "property")
}
