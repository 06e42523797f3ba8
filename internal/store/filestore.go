package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

// FileStore keeps the schedule document in a single JSON file. Saves
// go through a temp file and rename so readers never observe a partial
// document.
type FileStore struct {
	path   string
	logger logger.Logger
	mu     sync.Mutex
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{path: path, logger: log}
}

func (s *FileStore) Load(_ context.Context) (*engine.ScheduleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		st := engine.DefaultState()
		if err := s.write(st); err != nil {
			return nil, fmt.Errorf("seeding schedule file: %w", err)
		}
		s.logger.Info("Seeded default schedule document", "path", s.path)
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading schedule file: %w", err)
	}

	var st engine.ScheduleState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing schedule file: %w", err)
	}
	return &st, nil
}

func (s *FileStore) Save(_ context.Context, st *engine.ScheduleState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(st)
}

func (s *FileStore) write(st *engine.ScheduleState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling schedule document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".schedule-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing schedule file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
