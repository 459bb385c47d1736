package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsight/forecast-dashboard/internal/backend"
)

func TestDeriveAlertsEmpty(t *testing.T) {
	state := DeriveAlerts(nil)
	assert.False(t, state.Critical)
	assert.Empty(t, state.Alerts)
	assert.Nil(t, state.Primary)

	state = DeriveAlerts(&backend.AlertsResponse{})
	assert.False(t, state.Critical)
	assert.Nil(t, state.Primary)
}

func TestDeriveAlertsCritical(t *testing.T) {
	resp := &backend.AlertsResponse{Alerts: []backend.Alert{
		{Level: "warning", Message: "Load approaching threshold.", Timestamp: "2021-08-17T16:00:00"},
		{Level: "critical", Message: "Predicted load 512.5 MW exceeds 500 MW threshold.", Timestamp: "2021-08-17T18:00:00"},
	}}
	state := DeriveAlerts(resp)
	assert.True(t, state.Critical)
	require.Len(t, state.Alerts, 2)

	// The KPI card promotes the first entry; the panel carries them all.
	require.NotNil(t, state.Primary)
	assert.Equal(t, "Load approaching threshold.", state.Primary.Message)
	assert.Equal(t, "16:00", state.Primary.TimeLabel)
}

func TestDeriveAlertsUnknownLevel(t *testing.T) {
	resp := &backend.AlertsResponse{Alerts: []backend.Alert{
		{Level: "error", Message: "Cannot check alerts, data not loaded."},
	}}
	state := DeriveAlerts(resp)
	assert.False(t, state.Critical)
	require.Len(t, state.Alerts, 1)
	assert.Equal(t, "info", state.Alerts[0].Level, "unknown levels fall back to info styling")
	assert.Equal(t, "", state.Alerts[0].TimeLabel)
}
