package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/instant-weather/internal/weather"
)

const (
	prefTemperatureUnit = "temperature_unit"
	prefLocation        = "location"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS weather (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		data TEXT NOT NULL,
		fetched_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		pref_key VARCHAR(64) PRIMARY KEY,
		pref_value TEXT NOT NULL
	)`,
}

// SQLStore is a weather cache and preference store backed by database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Open connects to the database, verifies the connection and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// Every sqlite connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites '?' placeholders for drivers that use numbered ones.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Cached returns the most recent snapshot, or nil when the cache is empty.
func (s *SQLStore) Cached(ctx context.Context) (*weather.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM weather ORDER BY fetched_at DESC LIMIT 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cached weather: %w", err)
	}

	var snap weather.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("decode cached weather: %w", err)
	}
	return &snap, nil
}

// Save inserts the snapshot as a new row.
func (s *SQLStore) Save(ctx context.Context, snapshot weather.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode weather: %w", err)
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO weather (id, name, latitude, longitude, data, fetched_at) VALUES (?, ?, ?, ?, ?, ?)"),
		uuid.NewString(),
		snapshot.Name,
		snapshot.Location.Latitude,
		snapshot.Location.Longitude,
		string(data),
		fetchedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert weather: %w", err)
	}
	return nil
}

// DeleteAll removes every cached snapshot.
func (s *SQLStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM weather"); err != nil {
		return fmt.Errorf("delete weather: %w", err)
	}
	return nil
}

// SelectedTemperatureUnit returns the raw stored unit, "" when unset.
func (s *SQLStore) SelectedTemperatureUnit(ctx context.Context) (string, error) {
	v, err := s.getPref(ctx, prefTemperatureUnit)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// SetTemperatureUnit stores the raw unit value.
func (s *SQLStore) SetTemperatureUnit(ctx context.Context, unit string) error {
	return s.setPref(ctx, prefTemperatureUnit, unit)
}

// SaveLocation remembers the last location for background refreshes.
func (s *SQLStore) SaveLocation(ctx context.Context, loc weather.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	return s.setPref(ctx, prefLocation, string(data))
}

// SavedLocation returns ErrNotFound when no location was saved.
func (s *SQLStore) SavedLocation(ctx context.Context) (weather.Location, error) {
	v, err := s.getPref(ctx, prefLocation)
	if err != nil {
		return weather.Location{}, err
	}
	var loc weather.Location
	if err := json.Unmarshal([]byte(v), &loc); err != nil {
		return weather.Location{}, fmt.Errorf("decode location: %w", err)
	}
	return loc, nil
}

func (s *SQLStore) getPref(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT pref_value FROM preferences WHERE pref_key = ?"), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query preference %s: %w", key, err)
	}
	return v, nil
}

// setPref replaces the value in a transaction; delete+insert works on every supported driver.
func (s *SQLStore) setPref(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preference update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM preferences WHERE pref_key = ?"), key); err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(
		"INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)"), key, value); err != nil {
		return fmt.Errorf("insert preference %s: %w", key, err)
	}
	return tx.Commit()
}
