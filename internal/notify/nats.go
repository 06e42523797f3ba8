// Package notify implements best-effort fan-out of schedule changes
// and vehicle position updates to the configured notify target. A
// publish failure is logged and never fails the mutation that
// triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

// NATSNotifier publishes events on subjects scoped by the opaque
// notify target: shuttle.<target>.schedule and shuttle.<target>.position.
type NATSNotifier struct {
	nc     *nats.Conn
	logger logger.Logger
}

func NewNATSNotifier(url string, log logger.Logger) (*NATSNotifier, error) {
	nc, err := nats.Connect(url,
		nats.Name("shuttleroute"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			log.Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return &NATSNotifier{nc: nc, logger: log}, nil
}

func (n *NATSNotifier) Close() {
	if n.nc != nil {
		n.nc.Drain()
		n.nc.Close()
	}
}

type scheduleChangedMessage struct {
	Target    string             `json:"target"`
	Timestamp time.Time          `json:"timestamp"`
	Event     engine.ChangeEvent `json:"event"`
}

type positionUpdatedMessage struct {
	Target    string            `json:"target"`
	Timestamp time.Time         `json:"timestamp"`
	Fix       engine.VehicleFix `json:"fix"`
}

func (n *NATSNotifier) ScheduleChanged(_ context.Context, target string, ev engine.ChangeEvent) {
	msg := scheduleChangedMessage{Target: target, Timestamp: time.Now(), Event: ev}
	n.publish(fmt.Sprintf("shuttle.%s.schedule", subjectToken(target)), msg)
}

func (n *NATSNotifier) PositionUpdated(_ context.Context, target string, fix engine.VehicleFix) {
	msg := positionUpdatedMessage{Target: target, Timestamp: time.Now(), Fix: fix}
	n.publish(fmt.Sprintf("shuttle.%s.position", subjectToken(target)), msg)
}

func (n *NATSNotifier) publish(subject string, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("Failed to marshal notification", "subject", subject, "error", err)
		return
	}
	if err := n.nc.Publish(subject, b); err != nil {
		n.logger.Error("Failed to publish notification", "subject", subject, "error", err)
	}
}

// subjectToken strips characters NATS subjects cannot carry.
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
