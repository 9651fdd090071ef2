// Package shelter provides the SQLite-backed store of shelter locations.
// The store is a passive keyed collection: the core only reads nearby
// results from it, never designs around it.
package shelter

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
)

// Store reads and writes shelter records in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed bootstraps) the shelter database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open shelter db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS shelters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			address TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			capacity_total INTEGER,
			capacity_current INTEGER,
			accepts_pets INTEGER NOT NULL DEFAULT 0,
			ada_accessible INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'open'
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_shelters_name_addr ON shelters(name, address);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create shelters table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces a shelter record keyed by (name, address).
func (s *Store) Upsert(ctx context.Context, sh domain.Shelter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shelters
			(name, address, latitude, longitude, capacity_total, capacity_current, accepts_pets, ada_accessible, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, address) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			capacity_total = excluded.capacity_total,
			capacity_current = excluded.capacity_current,
			accepts_pets = excluded.accepts_pets,
			ada_accessible = excluded.ada_accessible,
			status = excluded.status
	`, sh.Name, sh.Address, sh.Lat, sh.Lon,
		sh.CapacityTotal, sh.CapacityCurrent,
		boolToInt(sh.AcceptsPets), boolToInt(sh.ADAAccessible), sh.Status)
	if err != nil {
		return fmt.Errorf("upsert shelter %q: %w", sh.Name, err)
	}
	return nil
}

// Nearby returns shelters within radiusMiles of the point, sorted
// ascending by great-circle distance. A coarse bounding box narrows the
// scan before the exact haversine filter runs in Go.
func (s *Store) Nearby(ctx context.Context, lat, lon, radiusMiles float64) ([]domain.Shelter, error) {
	// One degree of latitude is ~69 miles; a degree of longitude shrinks
	// by cos(latitude), so the box must be wider east-west away from the
	// equator. Widen both half-widths a little so the exact filter never
	// misses boundary shelters.
	latDegrees := radiusMiles/69.0 + 0.05
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDegrees := latDegrees / cosLat

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, address, latitude, longitude,
			capacity_total, capacity_current, accepts_pets, ada_accessible, status
		FROM shelters
		WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?
	`, lat-latDegrees, lat+latDegrees, lon-lonDegrees, lon+lonDegrees)
	if err != nil {
		return nil, fmt.Errorf("query shelters: %w", err)
	}
	defer rows.Close()

	var shelters []domain.Shelter
	for rows.Next() {
		var sh domain.Shelter
		var address sql.NullString
		var capTotal, capCurrent sql.NullInt64
		var pets, ada int

		if err := rows.Scan(&sh.Name, &address, &sh.Lat, &sh.Lon,
			&capTotal, &capCurrent, &pets, &ada, &sh.Status); err != nil {
			return nil, fmt.Errorf("scan shelter: %w", err)
		}

		sh.Address = address.String
		if capTotal.Valid {
			v := int(capTotal.Int64)
			sh.CapacityTotal = &v
		}
		if capCurrent.Valid {
			v := int(capCurrent.Int64)
			sh.CapacityCurrent = &v
		}
		sh.AcceptsPets = pets != 0
		sh.ADAAccessible = ada != 0

		shelters = append(shelters, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shelters: %w", err)
	}

	return domain.NearbyShelters(shelters, lat, lon, radiusMiles), nil
}

// Count returns the total number of shelter records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shelters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shelters: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
