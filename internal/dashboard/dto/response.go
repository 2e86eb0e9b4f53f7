package dto

import "time"

// ErrorResponse is the JSON body returned when a request fails.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PreferenceResponse reports the display mode after a toggle.
type PreferenceResponse struct {
	DarkMode bool `json:"dark_mode"`
}

// HealthResponse reports the service and upstream status.
type HealthResponse struct {
	Status      string          `json:"status"`
	ActiveViews int             `json:"active_views"`
	Upstream    *UpstreamStatus `json:"upstream,omitempty"`
}

// UpstreamStatus is the outcome of the latest market API probe.
type UpstreamStatus struct {
	Reachable bool      `json:"reachable"`
	CheckedAt time.Time `json:"checked_at"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
}
