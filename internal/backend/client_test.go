package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBase(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", normalizeBase("http://localhost:8080/"))
	assert.Equal(t, "http://localhost:8080", normalizeBase("http://localhost:8080///"))
	assert.Equal(t, "http://localhost:8080", normalizeBase("  http://localhost:8080 "))
	assert.Equal(t, "", normalizeBase(""))
}

func TestHourlyForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/forecast/hourly", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"timestamp": "2021-08-17T01:00:00", "predicted_power": 312.4},
			{"timestamp": "2021-08-17T02:00:00", "predicted_power": null}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 5*time.Second)
	points, err := c.HourlyForecast(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.NotNil(t, points[0].PredictedPower)
	assert.InDelta(t, 312.4, *points[0].PredictedPower, 1e-9)
	assert.Nil(t, points[1].PredictedPower)
}

func TestHistoricalDataParams(t *testing.T) {
	var gotStart, gotEnd string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/data/historical", r.URL.Path)
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Write([]byte(`[{"_time": "2021-08-01T00:00:00", "Phase3_power": 290.1, "Phase3_voltage": null}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	points, err := c.HistoricalData(context.Background(), "2021-08-01", "2021-08-02")
	require.NoError(t, err)
	assert.Equal(t, "2021-08-01", gotStart)
	assert.Equal(t, "2021-08-02", gotEnd)
	require.Len(t, points, 1)
	assert.Nil(t, points[0].Voltage)
}

func TestStatusErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Historical data not loaded on server."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.HourlyForecast(context.Background())
	require.Error(t, err)

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.Code)
	assert.Equal(t, `500: {"error": "Historical data not loaded on server."}`, serr.Error())
}

func TestUnauthorizedPolicies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("unauthorized"))
	}))
	defer srv.Close()

	t.Run("empty maps 401 to zero value", func(t *testing.T) {
		c := New(srv.URL, 5*time.Second, WithUnauthorizedEmpty(true))
		resp, err := c.CheckAlerts(context.Background())
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Empty(t, resp.Alerts)
	})

	t.Run("error surfaces the status", func(t *testing.T) {
		c := New(srv.URL, 5*time.Second, WithUnauthorizedEmpty(false))
		_, err := c.CheckAlerts(context.Background())
		var serr *StatusError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, http.StatusUnauthorized, serr.Code)
	})
}

func TestModelPerformance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"xgboost_mape": 40.5542, "lstm_mape": 49.334, "fusion_mape": 30.3778,
			"mape_unit": "%", "primary_model": "Hybrid Fusion", "last_trained": "2025-11-15"
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	perf, err := c.ModelPerformance(context.Background())
	require.NoError(t, err)
	require.NotNil(t, perf.FusionMAPE)
	assert.InDelta(t, 30.3778, *perf.FusionMAPE, 1e-9)
	assert.Equal(t, "Hybrid Fusion", perf.PrimaryModel)
	assert.Equal(t, "2025-11-15", perf.LastTrained)
}

func TestPlotImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/static/plots/fusion_model_prediction.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("pngbytes"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)

	b, contentType, err := c.PlotImage(context.Background(), "fusion_model_prediction.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("pngbytes"), b)

	_, _, err = c.PlotImage(context.Background(), "missing.png")
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.Code)
}

func TestSingleAttempt(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.HourlyForecast(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, hits, "a failed request must not be retried")
}
