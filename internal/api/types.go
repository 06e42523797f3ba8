package api

import "github.com/shuttleroute-data/internal/engine"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type VehicleSummaryResponse struct {
	Fix        engine.VehicleFix `json:"fix"`
	AgeSeconds int               `json:"age_seconds"`
	Fresh      bool              `json:"fresh"`
	Heading    string            `json:"heading,omitempty"`
	HeadingTo  string            `json:"heading_to,omitempty"`
	EtaMinutes int               `json:"eta_minutes,omitempty"`
}

type ScheduleResponse struct {
	Date      string                  `json:"date"`
	DayType   string                  `json:"day_type"`
	NoService bool                    `json:"no_service"`
	Outbound  []string                `json:"outbound"`
	Inbound   []string                `json:"inbound"`
	Vehicle   *VehicleSummaryResponse `json:"vehicle,omitempty"`
}

type EstimateResponse struct {
	Date           string   `json:"date"`
	DayType        string   `json:"day_type"`
	NoService      bool     `json:"no_service"`
	Direction      string   `json:"direction,omitempty"`
	DirectionLabel string   `json:"direction_label,omitempty"`
	Progress       float64  `json:"progress"`
	Departures     []string `json:"departures"`
	Source         string   `json:"source"`
	Minutes        int      `json:"minutes,omitempty"`
	Eta            string   `json:"eta"`
}

type PositionRequest struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Role string  `json:"role"`
}

type PositionResponse struct {
	Fix engine.VehicleFix `json:"fix"`
}

type HolidaysResponse struct {
	Holidays []string `json:"holidays"`
}

type HolidayChangeResponse struct {
	Date    string `json:"date"`
	Holiday bool   `json:"holiday"`
	Changed bool   `json:"changed"`
}

type TimesRequest struct {
	Times []string `json:"times"`
}

type NotifyTargetRequest struct {
	Target string `json:"target"`
}

type StatsResponse struct {
	Date               string `json:"date"`
	DayType            string `json:"day_type"`
	GPSActive          bool   `json:"gps_active"`
	FixFresh           bool   `json:"fix_fresh"`
	Holidays           int    `json:"holidays"`
	OverrideDates      int    `json:"override_dates"`
	WorkdayDepartures  int    `json:"workday_departures"`
	ShortDayDepartures int    `json:"shortday_departures"`
	NotifyTarget       string `json:"notify_target,omitempty"`
}
