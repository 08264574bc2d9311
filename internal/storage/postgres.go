package storage

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists sessions in PostgreSQL as JSONB documents.
type PostgresStore struct {
	db   querier
	pool *pgxpool.Pool
	ttl  time.Duration
	now  func() time.Time
}

// NewPool opens and pings a connection pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	config.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

// NewPostgresStore wraps an open pool. Sessions idle for longer than ttl are
// treated as missing and purged on write.
func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: pool, pool: pool, ttl: ttl, now: time.Now}
}

// Get loads a session by ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (Session, error) {
	var (
		payload   []byte
		updatedAt time.Time
	)
	err := s.db.QueryRow(ctx,
		`SELECT payload, updated_at FROM design_sessions WHERE id = $1 AND updated_at > $2`,
		id, s.cutoff()).Scan(&payload, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("select session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	session.ID = id
	session.UpdatedAt = updatedAt
	return session, nil
}

// Save upserts the session, assigning an ID when it has none.
func (s *PostgresStore) Save(ctx context.Context, session Session) (Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.UpdatedAt = s.now().UTC()

	payload, err := json.Marshal(session)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}

	if _, err := s.db.Exec(ctx,
		`INSERT INTO design_sessions (id, payload, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		session.ID, payload, session.UpdatedAt); err != nil {
		return Session{}, fmt.Errorf("upsert session: %w", err)
	}

	if s.ttl > 0 {
		if _, err := s.db.Exec(ctx, `DELETE FROM design_sessions WHERE updated_at <= $1`, s.cutoff()); err != nil {
			log.Warn().Err(err).Msg("purge expired sessions")
		}
	}
	return session, nil
}

// Delete removes a session by ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM design_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases database resources.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) cutoff() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().UTC().Add(-s.ttl)
}
