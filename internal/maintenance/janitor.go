// Package maintenance prunes schedule document entries that can no
// longer influence any resolution: date overrides and holiday flags
// for days already behind us.
package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

// JanitorConfig controls how often the janitor runs and how long past
// entries are kept before removal.
type JanitorConfig struct {
	Interval      time.Duration
	RetentionDays int
}

// DefaultJanitorConfig keeps a week of history and sweeps daily.
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		Interval:      24 * time.Hour,
		RetentionDays: 7,
	}
}

// Janitor periodically asks the engine to prune expired entries.
type Janitor struct {
	engine *engine.Engine
	logger logger.Logger
	config JanitorConfig

	mu        sync.RWMutex
	isRunning bool
	cancelFn  context.CancelFunc
}

func NewJanitor(eng *engine.Engine, log logger.Logger, config JanitorConfig) *Janitor {
	if config.Interval <= 0 {
		config.Interval = DefaultJanitorConfig().Interval
	}
	if config.RetentionDays < 0 {
		config.RetentionDays = 0
	}
	return &Janitor{
		engine: eng,
		logger: log,
		config: config,
	}
}

// Start begins the periodic sweep. The first run happens after a short
// delay so startup traffic settles first.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.isRunning {
		return fmt.Errorf("janitor is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	j.cancelFn = cancel
	j.isRunning = true

	j.logger.Info("Starting schedule janitor",
		"interval", j.config.Interval,
		"retention_days", j.config.RetentionDays)

	go j.sweepLoop(ctx)
	return nil
}

// Stop stops the periodic sweep.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.isRunning {
		return
	}
	if j.cancelFn != nil {
		j.cancelFn()
	}
	j.isRunning = false
	j.logger.Info("Schedule janitor stopped")
}

// IsRunning returns whether the janitor is active.
func (j *Janitor) IsRunning() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.isRunning
}

func (j *Janitor) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	initialDelay := time.NewTimer(1 * time.Minute)
	defer initialDelay.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Janitor sweep loop stopping")
			return
		case <-initialDelay.C:
			j.sweep(ctx)
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -j.config.RetentionDays)
	start := time.Now()
	removed, err := j.engine.PruneExpired(ctx, cutoff)
	if err != nil {
		j.logger.Error("Schedule sweep failed", "error", err, "duration", time.Since(start))
		return
	}
	if removed > 0 {
		j.logger.Info("Schedule sweep completed",
			"removed", removed,
			"duration", time.Since(start))
	}
}

// TriggerSweep runs one sweep immediately, for manual use.
func (j *Janitor) TriggerSweep(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -j.config.RetentionDays)
	return j.engine.PruneExpired(ctx, cutoff)
}
