package view

import "github.com/gridsight/forecast-dashboard/internal/backend"

// AlertView is one formatted alert entry.
type AlertView struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	TimeLabel string `json:"time_label"`
}

// AlertState drives the header bell and the KPI alert card.
type AlertState struct {
	Alerts   []AlertView `json:"alerts"`
	Critical bool        `json:"critical"`
	// Primary is the first entry, shown on the KPI card; the panel lists
	// all of them.
	Primary *AlertView `json:"primary,omitempty"`
}

var knownLevels = map[string]bool{
	"info":     true,
	"warning":  true,
	"critical": true,
}

// DeriveAlerts maps the backend's alert feed to display state. A nil or empty
// response is the "All Systems Normal" state.
func DeriveAlerts(resp *backend.AlertsResponse) AlertState {
	var state AlertState
	if resp == nil {
		return state
	}
	for _, a := range resp.Alerts {
		level := a.Level
		if !knownLevels[level] {
			level = "info"
		}
		if level == "critical" {
			state.Critical = true
		}
		state.Alerts = append(state.Alerts, AlertView{
			Level:     level,
			Message:   a.Message,
			TimeLabel: TimeLabel(a.Timestamp, "15:04"),
		})
	}
	if len(state.Alerts) > 0 {
		state.Primary = &state.Alerts[0]
	}
	return state
}
