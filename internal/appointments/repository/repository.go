package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motormarket_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Appointment statuses.
const (
	StatusBooked    = "booked"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment represents the appointment database model
type Appointment struct {
	ID              uuid.UUID  `db:"id"`
	UserID          uuid.UUID  `db:"user_id"`
	ListingID       *uuid.UUID `db:"listing_id"`
	VehicleID       *uuid.UUID `db:"vehicle_id"`
	Kind            string     `db:"kind"`
	ContactName     string     `db:"contact_name"`
	ContactEmail    string     `db:"contact_email"`
	ContactPhone    string     `db:"contact_phone"`
	Location        string     `db:"location"`
	Notes           *string    `db:"notes"`
	ScheduledAt     time.Time  `db:"scheduled_at"`
	DurationMinutes int        `db:"duration_minutes"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// EndsAt is the end of the booked slot.
func (a Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Repository provides database operations for appointments
type Repository struct {
	pool *pgxpool.Pool
}

const appointmentNotFoundMsg = "appointment not found"

const appointmentColumns = `id, user_id, listing_id, vehicle_id, kind, contact_name, contact_email, contact_phone,
	location, notes, scheduled_at, duration_minutes, status, created_at, updated_at`

// New creates a new appointments repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAppointment(row pgx.Row, appt *Appointment) error {
	return row.Scan(
		&appt.ID, &appt.UserID, &appt.ListingID, &appt.VehicleID, &appt.Kind, &appt.ContactName,
		&appt.ContactEmail, &appt.ContactPhone, &appt.Location, &appt.Notes, &appt.ScheduledAt,
		&appt.DurationMinutes, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt,
	)
}

// Create inserts a new appointment
func (r *Repository) Create(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.pool.Exec(ctx, query,
		appt.ID, appt.UserID, appt.ListingID, appt.VehicleID, appt.Kind, appt.ContactName,
		appt.ContactEmail, appt.ContactPhone, appt.Location, appt.Notes, appt.ScheduledAt,
		appt.DurationMinutes, appt.Status, appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by its ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var appt Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	if err := scanAppointment(r.pool.QueryRow(ctx, query, id), &appt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

// UpdateStatus moves an appointment to status only while it is still in
// one of the from states, so concurrent transitions cannot both win.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from []string, status string) error {
	query := `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1 AND status = ANY($4)`

	result, err := r.pool.Exec(ctx, query, id, status, time.Now(), from)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.Conflict("appointment status changed concurrently")
	}
	return nil
}

// ListParams contains parameters for listing appointments
type ListParams struct {
	UserID    *uuid.UUID
	ListingID *uuid.UUID
	Kind      *string
	Status    *string
	From      *time.Time
	To        *time.Time
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult contains the result of listing appointments
type ListResult struct {
	Items      []Appointment
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List retrieves appointments with optional filtering
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	baseQuery := `FROM appointments WHERE TRUE`
	args := []interface{}{}
	argIndex := 1

	addFilter(&baseQuery, &args, &argIndex, params.UserID != nil, " AND user_id = $%d", derefUUID(params.UserID))
	addFilter(&baseQuery, &args, &argIndex, params.ListingID != nil, " AND listing_id = $%d", derefUUID(params.ListingID))
	addFilter(&baseQuery, &args, &argIndex, params.Kind != nil, " AND kind = $%d", derefString(params.Kind))
	addFilter(&baseQuery, &args, &argIndex, params.Status != nil, " AND status = $%d", derefString(params.Status))
	addFilter(&baseQuery, &args, &argIndex, params.From != nil, " AND scheduled_at >= $%d", derefTime(params.From))
	addFilter(&baseQuery, &args, &argIndex, params.To != nil, " AND scheduled_at <= $%d", derefTime(params.To))

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	sortOrder := "ASC"
	if params.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY scheduled_at %s, id LIMIT $%d OFFSET $%d",
		appointmentColumns, baseQuery, sortOrder, argIndex, argIndex+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	items := make([]Appointment, 0)
	for rows.Next() {
		var appt Appointment
		if err := scanAppointment(rows, &appt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListActiveForListing returns booked or confirmed appointments of a listing
// overlapping [start, end). An appointment overlaps if it starts before the
// window ends and ends after the window starts.
func (r *Repository) ListActiveForListing(ctx context.Context, listingID uuid.UUID, start, end time.Time) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE listing_id = $1
		AND scheduled_at < $3
		AND scheduled_at + make_interval(mins => duration_minutes) > $2
		AND status IN ('booked', 'confirmed')
		ORDER BY scheduled_at ASC`

	rows, err := r.pool.Query(ctx, query, listingID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for listing: %w", err)
	}
	defer rows.Close()

	var items []Appointment
	for rows.Next() {
		var appt Appointment
		if err := scanAppointment(rows, &appt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}
	return items, nil
}

func addFilter(query *string, args *[]interface{}, argIndex *int, cond bool, clause string, value interface{}) {
	if !cond {
		return
	}
	*query += fmt.Sprintf(clause, *argIndex)
	*args = append(*args, value)
	*argIndex++
}

func derefUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func derefString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func derefTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
