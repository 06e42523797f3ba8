// Package feed ingests live vehicle positions from a NATS subject, as
// an alternative to the HTTP position endpoint. Driver-side apps
// publish {lat, lon} messages; each one becomes a position ingestion.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

const ingestTimeout = 10 * time.Second

type positionMessage struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Manager struct {
	url     string
	subject string
	engine  *engine.Engine
	logger  logger.Logger

	mu        sync.Mutex
	nc        *nats.Conn
	sub       *nats.Subscription
	isRunning bool
}

func NewManager(url, subject string, eng *engine.Engine, log logger.Logger) *Manager {
	return &Manager{
		url:     url,
		subject: subject,
		engine:  eng,
		logger:  log,
	}
}

func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return fmt.Errorf("position feed manager is already running")
	}
	if err := m.validateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	nc, err := nats.Connect(m.url, nats.Name("shuttleroute-feed"))
	if err != nil {
		return fmt.Errorf("connecting to nats: %w", err)
	}

	sub, err := nc.Subscribe(m.subject, func(msg *nats.Msg) {
		m.handleMessage(ctx, msg.Data)
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("subscribing to %q: %w", m.subject, err)
	}

	m.nc = nc
	m.sub = sub
	m.isRunning = true
	m.logger.Info("Position feed started", "subject", m.subject)

	go func() {
		<-ctx.Done()
		m.Stop()
	}()

	return nil
}

func (m *Manager) handleMessage(ctx context.Context, data []byte) {
	var pos positionMessage
	if err := json.Unmarshal(data, &pos); err != nil {
		m.logger.Warn("Dropping malformed position message", "error", err)
		return
	}

	ingestCtx, cancel := context.WithTimeout(ctx, ingestTimeout)
	defer cancel()

	if _, err := m.engine.IngestPosition(ingestCtx, pos.Lat, pos.Lon); err != nil {
		m.logger.Error("Failed to ingest feed position", "error", err)
	}
}

func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return
	}
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
	if m.nc != nil {
		m.nc.Drain()
		m.nc.Close()
	}
	m.isRunning = false
	m.logger.Info("Position feed stopped")
}

func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}

func (m *Manager) validateConfig() error {
	if m.url == "" {
		return fmt.Errorf("NATS URL is required")
	}
	if m.subject == "" {
		return fmt.Errorf("feed subject cannot be empty")
	}
	return nil
}
