// Package storage persists the latest observed state of each polled server
// in SQLite. One row per address, upserted in place; time series stay out of
// scope.
package storage

import (
	"database/sql"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/hlds-exporter/internal/geoip"
	"github.com/woozymasta/hlds-exporter/internal/models"
	_ "modernc.org/sqlite" // Driver sqlite
)

// Repository manages the SQLite database connection. It implements the
// poller sink: every observation upserts the row for its address. Write
// errors are logged and swallowed so a failing snapshot store never disturbs
// polling.
type Repository struct {
	db  *sql.DB
	geo *geoip.Provider // nil disables country enrichment

	mu        sync.Mutex
	countries map[string]string
}

// New initializes the SQLite connection, sets pool parameters, and runs the
// embedded migrations.
func New(dbPath string, geo *geoip.Provider) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{
		db:        db,
		geo:       geo,
		countries: make(map[string]string),
	}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// ObserveUp upserts the liveness flag for addr.
func (r *Repository) ObserveUp(addr string, up bool) {
	now := time.Now()

	_, err := r.db.Exec(`
		INSERT INTO servers (address, up, country_code, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			up        = excluded.up,
			last_seen = excluded.last_seen,
			country_code = CASE WHEN excluded.country_code != '' THEN excluded.country_code ELSE servers.country_code END;
	`, addr, up, r.country(addr), now, now)

	if err != nil {
		log.Error().Err(err).Str("server", addr).Msg("Failed to save liveness")
	}
}

// ObservePlayers upserts the player and bot counts for addr.
func (r *Repository) ObservePlayers(addr string, players, bots int) {
	now := time.Now()

	_, err := r.db.Exec(`
		INSERT INTO servers (address, players, bots, country_code, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			players   = excluded.players,
			bots      = excluded.bots,
			last_seen = excluded.last_seen,
			country_code = CASE WHEN excluded.country_code != '' THEN excluded.country_code ELSE servers.country_code END;
	`, addr, players, bots, r.country(addr), now, now)

	if err != nil {
		log.Error().Err(err).Str("server", addr).Msg("Failed to save player counts")
	}
}

// ObserveInfo upserts the identity fields for addr.
func (r *Repository) ObserveInfo(addr, name, game, version string) {
	now := time.Now()

	_, err := r.db.Exec(`
		INSERT INTO servers (address, server_name, game_name, game_version, country_code, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			server_name  = excluded.server_name,
			game_name    = excluded.game_name,
			game_version = excluded.game_version,
			last_seen    = excluded.last_seen,
			country_code = CASE WHEN excluded.country_code != '' THEN excluded.country_code ELSE servers.country_code END;
	`, addr, name, game, version, r.country(addr), now, now)

	if err != nil {
		log.Error().Err(err).Str("server", addr).Msg("Failed to save server info")
	}
}

// GetServers retrieves the snapshot of every server, sorted by address.
func (r *Repository) GetServers() ([]models.ServerStatus, error) {
	rows, err := r.db.Query(`
		SELECT address, up, players, bots,
		       server_name, game_name, game_version, country_code,
		       first_seen, last_seen
		FROM servers
		ORDER BY address
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var servers []models.ServerStatus
	for rows.Next() {
		var s models.ServerStatus
		if err := rows.Scan(
			&s.Address, &s.Up, &s.Players, &s.Bots,
			&s.ServerName, &s.GameName, &s.GameVersion, &s.CountryCode,
			&s.FirstSeen, &s.LastSeen,
		); err != nil {
			continue
		}
		servers = append(servers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return servers, nil
}

// country resolves and caches the country code for an address. The fleet is
// fixed at startup, so the cache never needs eviction.
func (r *Repository) country(addr string) string {
	if r.geo == nil {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if code, ok := r.countries[addr]; ok {
		return code
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	code := r.geo.Country(host)
	r.countries[addr] = code

	return code
}
