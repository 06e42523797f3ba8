package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/metrics"
	"github.com/shuttleroute-data/pkg/timetable"
)

// Store is the persistence contract for the schedule document. Writes
// are whole-document replaces; the store provides no cross-caller
// transactional guarantee, so the engine serializes its own
// load→mutate→save cycles.
type Store interface {
	Load(ctx context.Context) (*ScheduleState, error)
	Save(ctx context.Context, st *ScheduleState) error
}

// ChangeEvent describes one schedule mutation for fan-out.
type ChangeEvent struct {
	Kind      string               `json:"kind"`
	Date      string               `json:"date,omitempty"`
	DayType   DayType              `json:"day_type,omitempty"`
	Direction Direction            `json:"direction,omitempty"`
	Times     []timetable.TimeOfDay `json:"times,omitempty"`
}

// Notifier fans schedule changes and position updates out to the
// configured notify target. Implementations are best-effort and must
// never fail the triggering operation.
type Notifier interface {
	ScheduleChanged(ctx context.Context, target string, ev ChangeEvent)
	PositionUpdated(ctx context.Context, target string, fix VehicleFix)
}

// Options carries the optional engine collaborators.
type Options struct {
	FixFreshness time.Duration
	Notifier     Notifier
	Metrics      *metrics.Collector
}

// Engine reconciles the base timetable, date overrides and the live
// vehicle fix into consistent answers. It holds no schedule state of
// its own; every operation loads the document, computes and, for
// mutations, writes the document back under a single-writer lock.
type Engine struct {
	store     Store
	route     Route
	logger    logger.Logger
	notifier  Notifier
	metrics   *metrics.Collector
	freshness time.Duration
	now       func() time.Time

	// mu makes each load→mutate→save cycle a critical section so
	// concurrent admin edits cannot overwrite each other.
	mu sync.Mutex
}

func New(store Store, route Route, log logger.Logger, opts Options) *Engine {
	freshness := opts.FixFreshness
	if freshness <= 0 {
		freshness = DefaultFixFreshness
	}
	return &Engine{
		store:     store,
		route:     route,
		logger:    log,
		notifier:  opts.Notifier,
		metrics:   opts.Metrics,
		freshness: freshness,
		now:       time.Now,
	}
}

// Route returns the immutable route geometry.
func (e *Engine) Route() Route {
	return e.route
}

func (e *Engine) load(ctx context.Context) (*ScheduleState, error) {
	start := e.now()
	st, err := e.store.Load(ctx)
	if err != nil {
		if e.metrics != nil {
			e.metrics.StoreErrors.WithLabelValues("load").Inc()
		}
		return nil, fmt.Errorf("%w: loading schedule document: %v", ErrStorageUnavailable, err)
	}
	if e.metrics != nil {
		e.metrics.LoadDuration.Observe(e.now().Sub(start).Seconds())
	}
	st.normalize()
	return st, nil
}

// update runs one load→mutate→save cycle as a critical section. The
// mutation either lands whole or not at all; a failed save surfaces
// as ErrStorageUnavailable and the caller may resubmit, every mutation
// being a "set to X" rather than a delta.
func (e *Engine) update(ctx context.Context, op string, mutate func(*ScheduleState) error) (*ScheduleState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := mutate(st); err != nil {
		return nil, err
	}
	start := e.now()
	if err := e.store.Save(ctx, st); err != nil {
		if e.metrics != nil {
			e.metrics.StoreErrors.WithLabelValues("save").Inc()
		}
		return nil, fmt.Errorf("%w: saving schedule document: %v", ErrStorageUnavailable, err)
	}
	if e.metrics != nil {
		e.metrics.SaveDuration.Observe(e.now().Sub(start).Seconds())
		e.metrics.Mutations.WithLabelValues(op).Inc()
	}
	return st, nil
}

// VehicleSummary describes where the vehicle is heading and how soon
// it reaches the endpoint ahead, derived from fix progress alone.
type VehicleSummary struct {
	Fix        VehicleFix
	AgeSeconds int
	Fresh      bool
	Heading    Direction
	HeadingTo  string
	ETAMinutes int
}

// DaySchedule is the full answer to "what runs today".
type DaySchedule struct {
	Date      string
	DayType   DayType
	NoService bool
	Outbound  []timetable.TimeOfDay
	Inbound   []timetable.TimeOfDay
	Vehicle   *VehicleSummary
}

// TodaySchedule resolves both directions for a date and summarizes the
// vehicle fix. Read-only; runs unlocked against the latest snapshot.
func (e *Engine) TodaySchedule(ctx context.Context, date time.Time) (DaySchedule, error) {
	st, err := e.load(ctx)
	if err != nil {
		return DaySchedule{}, err
	}
	if e.metrics != nil {
		e.metrics.ScheduleRequests.Inc()
	}

	dayType := Classify(date, st.Holidays)
	sched := DaySchedule{
		Date:      FormatDate(date),
		DayType:   dayType,
		NoService: dayType == DayTypeHoliday,
	}
	if sched.Outbound, err = Resolve(DirectionOutbound, date, st); err != nil {
		return DaySchedule{}, err
	}
	if sched.Inbound, err = Resolve(DirectionInbound, date, st); err != nil {
		return DaySchedule{}, err
	}
	sched.Vehicle = e.summarizeVehicle(st)
	return sched, nil
}

func (e *Engine) summarizeVehicle(st *ScheduleState) *VehicleSummary {
	status, ok := CurrentFix(st, e.now(), e.freshness)
	if !ok {
		return nil
	}
	if e.metrics != nil {
		if status.Fresh {
			e.metrics.FixFresh.Set(1)
		} else {
			e.metrics.FixFresh.Set(0)
		}
	}
	summary := &VehicleSummary{
		Fix:        status.Fix,
		AgeSeconds: int(status.Age.Seconds()),
		Fresh:      status.Fresh,
	}
	if !status.Fresh {
		return summary
	}
	// Below the halfway point the vehicle is read as heading out to
	// the terminus, otherwise as returning to the origin.
	distFromOrigin := st.Settings.RouteKm * status.Fix.Progress / 100
	var remaining float64
	if status.Fix.Progress < 50 {
		summary.Heading = DirectionOutbound
		remaining = st.Settings.RouteKm - distFromOrigin
	} else {
		summary.Heading = DirectionInbound
		remaining = distFromOrigin
	}
	summary.HeadingTo = e.route.EndpointName(summary.Heading)
	summary.ETAMinutes = int(math.Round(remaining / (st.Settings.SpeedKmh / 60)))
	return summary
}

// EstimateForCaller answers "when will the vehicle arrive, here" for
// an arbitrary caller location. Read-only.
func (e *Engine) EstimateForCaller(ctx context.Context, lat, lon float64, date time.Time) (Estimate, error) {
	st, err := e.load(ctx)
	if err != nil {
		return Estimate{}, err
	}
	est, err := estimateForCaller(e.route, st, lat, lon, date, e.now(), e.freshness)
	if err != nil {
		return Estimate{}, err
	}
	if e.metrics != nil {
		e.metrics.ETARequests.WithLabelValues(string(est.Source)).Inc()
	}
	return est, nil
}

// IngestPosition stores a vehicle fix captured now, replacing whatever
// fix was retained before regardless of relative age.
func (e *Engine) IngestPosition(ctx context.Context, lat, lon float64) (VehicleFix, error) {
	var fix VehicleFix
	st, err := e.update(ctx, "ingest_position", func(st *ScheduleState) error {
		fix = VehicleFix{
			Lat:        lat,
			Lon:        lon,
			CapturedAt: e.now(),
			Progress:   e.route.Progress(st.Settings.RouteKm, lat, lon),
		}
		st.VehicleFix = &fix
		return nil
	})
	if err != nil {
		return VehicleFix{}, err
	}
	if e.metrics != nil {
		e.metrics.PositionsIngested.Inc()
	}
	e.logger.Debug("Vehicle fix ingested", "lat", lat, "lon", lon, "progress", fix.Progress)
	if e.notifier != nil && st.NotifyTarget != "" {
		e.notifier.PositionUpdated(ctx, st.NotifyTarget, fix)
	}
	return fix, nil
}

// SetHoliday adds or removes a date in the holiday set. Returns false
// when the set already had the requested shape.
func (e *Engine) SetHoliday(ctx context.Context, date string, add bool) (bool, error) {
	parsed, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	key := FormatDate(parsed)

	changed := false
	st, err := e.update(ctx, "set_holiday", func(st *ScheduleState) error {
		if add {
			if st.IsHoliday(key) {
				return nil
			}
			st.Holidays = append(st.Holidays, key)
			changed = true
			return nil
		}
		kept := st.Holidays[:0]
		for _, h := range st.Holidays {
			if h == key {
				changed = true
				continue
			}
			kept = append(kept, h)
		}
		st.Holidays = kept
		return nil
	})
	if err != nil {
		return false, err
	}
	if changed {
		e.logger.Info("Holiday set updated", "date", key, "added", add)
		e.notifyChange(ctx, st, ChangeEvent{Kind: holidayEventKind(add), Date: key})
	}
	return changed, nil
}

func holidayEventKind(add bool) string {
	if add {
		return "holiday_added"
	}
	return "holiday_removed"
}

// SetOverride replaces the departure list for one direction on one
// date. An empty times slice cancels every departure for that
// direction on that date; the other direction is untouched.
func (e *Engine) SetOverride(ctx context.Context, date string, dir Direction, times []string) error {
	parsed, err := ParseDate(date)
	if err != nil {
		return err
	}
	if !dir.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
	}
	parsedTimes, err := timetable.ParseList(times)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	key := FormatDate(parsed)

	st, err := e.update(ctx, "set_override", func(st *ScheduleState) error {
		if st.Overrides[key] == nil {
			st.Overrides[key] = DirectionTimes{}
		}
		st.Overrides[key][dir] = parsedTimes
		return nil
	})
	if err != nil {
		return err
	}
	e.logger.Info("Override set", "date", key, "direction", dir, "departures", len(parsedTimes))
	e.notifyChange(ctx, st, ChangeEvent{Kind: "override_set", Date: key, Direction: dir, Times: parsedTimes})
	return nil
}

// ClearOverride removes a direction's override for a date so the base
// timetable applies again.
func (e *Engine) ClearOverride(ctx context.Context, date string, dir Direction) error {
	parsed, err := ParseDate(date)
	if err != nil {
		return err
	}
	if !dir.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
	}
	key := FormatDate(parsed)

	st, err := e.update(ctx, "clear_override", func(st *ScheduleState) error {
		override, ok := st.Overrides[key]
		if !ok {
			return nil
		}
		delete(override, dir)
		if len(override) == 0 {
			delete(st.Overrides, key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.logger.Info("Override cleared", "date", key, "direction", dir)
	e.notifyChange(ctx, st, ChangeEvent{Kind: "override_cleared", Date: key, Direction: dir})
	return nil
}

// SetBaseTimetable replaces the recurring departure list for one
// editable day type and direction.
func (e *Engine) SetBaseTimetable(ctx context.Context, dayType DayType, dir Direction, times []string) error {
	if dayType != DayTypeWorkDay && dayType != DayTypeShortDay {
		return fmt.Errorf("%w: %q", ErrUnknownDayType, dayType)
	}
	if !dir.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
	}
	parsedTimes, err := timetable.ParseList(times)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	st, err := e.update(ctx, "set_base_timetable", func(st *ScheduleState) error {
		st.BaseTimetable[dayType][dir] = parsedTimes
		return nil
	})
	if err != nil {
		return err
	}
	e.logger.Info("Base timetable updated", "day_type", dayType, "direction", dir, "departures", len(parsedTimes))
	e.notifyChange(ctx, st, ChangeEvent{Kind: "timetable_set", DayType: dayType, Direction: dir, Times: parsedTimes})
	return nil
}

// SetNotifyTarget sets or, with an empty id, clears the opaque
// notification target.
func (e *Engine) SetNotifyTarget(ctx context.Context, target string) error {
	_, err := e.update(ctx, "set_notify_target", func(st *ScheduleState) error {
		st.NotifyTarget = target
		return nil
	})
	if err != nil {
		return err
	}
	e.logger.Info("Notify target updated", "cleared", target == "")
	return nil
}

// Stats is the admin snapshot of the document.
type Stats struct {
	Date               string
	DayType            DayType
	GPSActive          bool
	FixFresh           bool
	Holidays           int
	OverrideDates      int
	WorkdayDepartures  int
	ShortDayDepartures int
	NotifyTarget       string
}

// Stats summarizes the current document for the admin surface.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	st, err := e.load(ctx)
	if err != nil {
		return Stats{}, err
	}
	now := e.now()
	status, hasFix := CurrentFix(st, now, e.freshness)
	return Stats{
		Date:               FormatDate(now),
		DayType:            Classify(now, st.Holidays),
		GPSActive:          hasFix,
		FixFresh:           hasFix && status.Fresh,
		Holidays:           len(st.Holidays),
		OverrideDates:      len(st.Overrides),
		WorkdayDepartures:  len(st.BaseTimetable[DayTypeWorkDay][DirectionOutbound]),
		ShortDayDepartures: len(st.BaseTimetable[DayTypeShortDay][DirectionOutbound]),
		NotifyTarget:       st.NotifyTarget,
	}, nil
}

// PruneExpired removes override entries and holiday flags for dates
// strictly before the cutoff. Past entries can never influence a
// resolution again, they only grow the document.
func (e *Engine) PruneExpired(ctx context.Context, before time.Time) (int, error) {
	cutoff := FormatDate(before)
	removed := 0
	_, err := e.update(ctx, "prune_expired", func(st *ScheduleState) error {
		for key := range st.Overrides {
			if key < cutoff {
				delete(st.Overrides, key)
				removed++
			}
		}
		kept := st.Holidays[:0]
		for _, h := range st.Holidays {
			if h < cutoff {
				removed++
				continue
			}
			kept = append(kept, h)
		}
		st.Holidays = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		e.logger.Info("Pruned expired schedule entries", "cutoff", cutoff, "removed", removed)
	}
	return removed, nil
}

// Holidays lists the explicitly flagged holiday dates.
func (e *Engine) Holidays(ctx context.Context) ([]string, error) {
	st, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.Holidays, nil
}

func (e *Engine) notifyChange(ctx context.Context, st *ScheduleState, ev ChangeEvent) {
	if e.notifier == nil || st.NotifyTarget == "" {
		return
	}
	e.notifier.ScheduleChanged(ctx, st.NotifyTarget, ev)
}
