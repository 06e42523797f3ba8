package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

// PostgresStore keeps the schedule document as a single jsonb row,
// replaced whole on every save.
type PostgresStore struct {
	conn   *sql.DB
	logger logger.Logger
	mu     sync.Mutex
}

func NewPostgresStore(ctx context.Context, connStr string, log logger.Logger) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schedule_state (
			id         smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schedule_state table: %w", err)
	}

	log.Info("Database connection established")
	return &PostgresStore{conn: conn, logger: log}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*engine.ScheduleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc []byte
	err := s.conn.QueryRowContext(ctx, `SELECT doc FROM schedule_state WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		st := engine.DefaultState()
		if err := s.save(ctx, st); err != nil {
			return nil, fmt.Errorf("seeding schedule document: %w", err)
		}
		s.logger.Info("Seeded default schedule document")
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule document: %w", err)
	}

	var st engine.ScheduleState
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, fmt.Errorf("parsing schedule document: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) Save(ctx context.Context, st *engine.ScheduleState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, st)
}

func (s *PostgresStore) save(ctx context.Context, st *engine.ScheduleState) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshalling schedule document: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO schedule_state (id, doc, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, doc)
	if err != nil {
		return fmt.Errorf("upserting schedule document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}
