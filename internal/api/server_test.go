package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

// memStore is an in-memory engine.Store for handler tests.
type memStore struct {
	doc  *engine.ScheduleState
	fail bool
}

func (m *memStore) Load(ctx context.Context) (*engine.ScheduleState, error) {
	if m.fail {
		return nil, errors.New("backend down")
	}
	if m.doc == nil {
		m.doc = engine.DefaultState()
	}
	raw, err := json.Marshal(m.doc)
	if err != nil {
		return nil, err
	}
	var out engine.ScheduleState
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memStore) Save(ctx context.Context, st *engine.ScheduleState) error {
	if m.fail {
		return errors.New("backend down")
	}
	m.doc = st
	return nil
}

func newTestApp(store *memStore) *fiber.App {
	route := engine.Route{
		Origin:       engine.Coordinate{Lat: 50.976412, Lon: 44.777647},
		Terminus:     engine.Coordinate{Lat: 51.082652, Lon: 44.816874},
		OriginName:   "Riverside",
		TerminusName: "Hillcrest",
	}
	log := logger.NewWriterLogger()
	eng := engine.New(store, route, log, engine.Options{})
	return NewServer(eng, log).App()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return resp, raw
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&memStore{})
	resp, raw := doJSON(t, app, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.Unmarshal(raw, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status field = %q", health.Status)
	}
}

func TestGetTodaySchedule(t *testing.T) {
	app := newTestApp(&memStore{})
	resp, raw := doJSON(t, app, http.MethodGet, "/v1/schedule/today?date=2026-03-10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, raw)
	}
	var sched ScheduleResponse
	if err := json.Unmarshal(raw, &sched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sched.Date != "2026-03-10" || sched.DayType != "workday" {
		t.Errorf("date/daytype = %s/%s", sched.Date, sched.DayType)
	}
	if len(sched.Outbound) != 8 || sched.Outbound[0] != "06:20" {
		t.Errorf("outbound = %v", sched.Outbound)
	}
	if sched.NoService {
		t.Error("workday flagged no-service")
	}
}

func TestGetTodayScheduleBadDate(t *testing.T) {
	app := newTestApp(&memStore{})
	resp, _ := doJSON(t, app, http.MethodGet, "/v1/schedule/today?date=10.03.2026", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPostPositionRequiresDriverRole(t *testing.T) {
	app := newTestApp(&memStore{})

	resp, _ := doJSON(t, app, http.MethodPost, "/v1/position",
		PositionRequest{Lat: 51.0, Lon: 44.79, Role: "passenger"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("passenger post status = %d, want 403", resp.StatusCode)
	}

	resp, raw := doJSON(t, app, http.MethodPost, "/v1/position",
		PositionRequest{Lat: 51.0, Lon: 44.79, Role: RoleDriver})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("driver post status = %d: %s", resp.StatusCode, raw)
	}
	var pos PositionResponse
	if err := json.Unmarshal(raw, &pos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pos.Fix.Lat != 51.0 || pos.Fix.Lon != 44.79 {
		t.Errorf("echoed fix = (%v, %v)", pos.Fix.Lat, pos.Fix.Lon)
	}
}

func TestEstimateEndpoint(t *testing.T) {
	app := newTestApp(&memStore{})

	// Driver reports, then a caller at the origin asks.
	resp, _ := doJSON(t, app, http.MethodPost, "/v1/position",
		PositionRequest{Lat: 51.021378, Lon: 44.777647, Role: RoleDriver})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("position status = %d", resp.StatusCode)
	}

	resp, raw := doJSON(t, app, http.MethodGet,
		"/v1/eta?lat=50.976412&lon=44.777647&date=2026-03-10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("eta status = %d: %s", resp.StatusCode, raw)
	}
	var est EstimateResponse
	if err := json.Unmarshal(raw, &est); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if est.Source != "gps" {
		t.Errorf("source = %q, want gps", est.Source)
	}
	if est.Minutes != 7 {
		t.Errorf("minutes = %d, want 7", est.Minutes)
	}
	if est.Direction != "outbound" {
		t.Errorf("direction = %q", est.Direction)
	}
}

func TestEstimateRequiresCoordinates(t *testing.T) {
	app := newTestApp(&memStore{})
	resp, _ := doJSON(t, app, http.MethodGet, "/v1/eta?date=2026-03-10", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestOverrideEndpoints(t *testing.T) {
	store := &memStore{}
	app := newTestApp(store)

	resp, _ := doJSON(t, app, http.MethodPut, "/v1/overrides/2026-03-10/outbound",
		TimesRequest{Times: []string{}})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("put override status = %d", resp.StatusCode)
	}

	_, raw := doJSON(t, app, http.MethodGet, "/v1/schedule/today?date=2026-03-10", nil)
	var sched ScheduleResponse
	if err := json.Unmarshal(raw, &sched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sched.Outbound) != 0 || len(sched.Inbound) != 8 {
		t.Errorf("after cancellation outbound=%v inbound=%d", sched.Outbound, len(sched.Inbound))
	}

	resp, _ = doJSON(t, app, http.MethodDelete, "/v1/overrides/2026-03-10/outbound", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete override status = %d", resp.StatusCode)
	}

	_, raw = doJSON(t, app, http.MethodGet, "/v1/schedule/today?date=2026-03-10", nil)
	if err := json.Unmarshal(raw, &sched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sched.Outbound) != 8 {
		t.Errorf("outbound not restored: %v", sched.Outbound)
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/v1/overrides/2026-03-10/sideways",
		TimesRequest{Times: []string{"10:00"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown direction status = %d, want 400", resp.StatusCode)
	}
}

func TestHolidayEndpoints(t *testing.T) {
	app := newTestApp(&memStore{})

	resp, raw := doJSON(t, app, http.MethodPut, "/v1/holidays/2026-03-11", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put holiday status = %d", resp.StatusCode)
	}
	var change HolidayChangeResponse
	if err := json.Unmarshal(raw, &change); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !change.Changed || !change.Holiday {
		t.Errorf("change = %+v", change)
	}

	_, raw = doJSON(t, app, http.MethodGet, "/v1/holidays", nil)
	var holidays HolidaysResponse
	if err := json.Unmarshal(raw, &holidays); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, h := range holidays.Holidays {
		if h == "2026-03-11" {
			found = true
		}
	}
	if !found {
		t.Errorf("added holiday missing from %v", holidays.Holidays)
	}

	resp, _ = doJSON(t, app, http.MethodPut, "/v1/holidays/garbage", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", resp.StatusCode)
	}
}

func TestStorageUnavailableMapsTo503(t *testing.T) {
	app := newTestApp(&memStore{fail: true})
	resp, _ := doJSON(t, app, http.MethodGet, "/v1/schedule/today?date=2026-03-10", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	app := newTestApp(&memStore{})
	resp, raw := doJSON(t, app, http.MethodGet, "/v1/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var stats StatsResponse
	if err := json.Unmarshal(raw, &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.WorkdayDepartures != 8 || stats.ShortDayDepartures != 6 {
		t.Errorf("departure counts = %d/%d", stats.WorkdayDepartures, stats.ShortDayDepartures)
	}
	if stats.GPSActive {
		t.Error("gps active with no fix ingested")
	}
}
