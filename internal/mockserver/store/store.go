// Package store persists trips for the local mock backend in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kayz-mann/trip-planner/client"
)

// ErrNotFound is returned when no trip has the requested id.
var ErrNotFound = errors.New("trip not found")

// Store is a SQLite-backed trips collection. Trips list in insertion order.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source for created_at/updated_at.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDGenerator overrides uuid.NewString for new trip ids.
func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// Open opens the database at path (MemoryPath for a throwaway store) and
// applies pending migrations.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &Store{db: db, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

const selectCols = `id, name, destination, start_date, end_date, duration, travel_style, description, created_at, updated_at`

// List returns every trip in insertion order.
func (s *Store) List(ctx context.Context) ([]client.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectCols+` FROM trips ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	trips := []client.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

// Get returns the trip with id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*client.Trip, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectCols+` FROM trips WHERE id = ?`, id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return t, nil
}

// Create stores req as a new trip with a generated id and timestamps.
func (s *Store) Create(ctx context.Context, req client.TripRequest) (*client.Trip, error) {
	id := s.newID()
	stamp := s.stamp()
	_, err := s.db.ExecContext(ctx, `INSERT INTO trips (id, name, destination, start_date, end_date, duration, travel_style, description, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		id, req.Name, req.Destination, nullString(req.StartDate), nullString(req.EndDate), nullInt(req.Duration),
		nullString(req.TravelStyle), nullString(req.Description), stamp, stamp)
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	return s.Get(ctx, id)
}

// Replace overwrites every field of trip id with req (PUT semantics).
func (s *Store) Replace(ctx context.Context, id string, req client.TripRequest) (*client.Trip, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE trips SET name = ?, destination = ?, start_date = ?, end_date = ?, duration = ?,
		travel_style = ?, description = ?, updated_at = ? WHERE id = ?`,
		req.Name, req.Destination, nullString(req.StartDate), nullString(req.EndDate), nullInt(req.Duration),
		nullString(req.TravelStyle), nullString(req.Description), s.stamp(), id)
	if err != nil {
		return nil, fmt.Errorf("replace trip %s: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Patch updates only the fields req sets (PATCH semantics). Empty name or
// destination leave the stored value unchanged.
func (s *Store) Patch(ctx context.Context, id string, req client.TripRequest) (*client.Trip, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE trips SET
		name         = COALESCE(NULLIF(?, ''), name),
		destination  = COALESCE(NULLIF(?, ''), destination),
		start_date   = COALESCE(?, start_date),
		end_date     = COALESCE(?, end_date),
		duration     = COALESCE(?, duration),
		travel_style = COALESCE(?, travel_style),
		description  = COALESCE(?, description),
		updated_at   = ?
		WHERE id = ?`,
		req.Name, req.Destination, nullString(req.StartDate), nullString(req.EndDate), nullInt(req.Duration),
		nullString(req.TravelStyle), nullString(req.Description), s.stamp(), id)
	if err != nil {
		return nil, fmt.Errorf("patch trip %s: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes trip id or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trip %s: %w", id, err)
	}
	return requireRow(res)
}

func (s *Store) stamp() string { return s.now().UTC().Format(time.RFC3339) }

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(sc scanner) (*client.Trip, error) {
	var (
		t                                client.Trip
		id, createdAt, updatedAt         string
		startDate, endDate, style, descr sql.NullString
		duration                         sql.NullInt64
	)
	if err := sc.Scan(&id, &t.Name, &t.Destination, &startDate, &endDate, &duration, &style, &descr, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.ID = &id
	t.CreatedAt = &createdAt
	t.UpdatedAt = &updatedAt
	t.StartDate = fromNullString(startDate)
	t.EndDate = fromNullString(endDate)
	t.TravelStyle = fromNullString(style)
	t.Description = fromNullString(descr)
	if duration.Valid {
		d := int(duration.Int64)
		t.Duration = &d
	}
	return &t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
