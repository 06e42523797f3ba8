package engine

import "time"

// DefaultFixFreshness bounds how old a fix may be, measured at read
// time, before the estimator stops trusting it.
const DefaultFixFreshness = 5 * time.Minute

// FixStatus is the retained fix together with its read-time staleness.
type FixStatus struct {
	Fix   VehicleFix
	Age   time.Duration
	Fresh bool
}

// CurrentFix reports the retained vehicle fix, if any. Staleness is
// judged against now, not against ingest time; stale fixes stay in the
// document but must not drive ETA computation.
func CurrentFix(st *ScheduleState, now time.Time, freshness time.Duration) (FixStatus, bool) {
	if st.VehicleFix == nil {
		return FixStatus{}, false
	}
	age := now.Sub(st.VehicleFix.CapturedAt)
	return FixStatus{
		Fix:   *st.VehicleFix,
		Age:   age,
		Fresh: age < freshness,
	}, true
}
