// mockbackend serves the forecasting backend's API surface with synthetic
// data so the dashboard can be developed without the real model server.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/gridsight/forecast-dashboard/internal/backend"
	"github.com/gridsight/forecast-dashboard/web"
)

const criticalLoadThreshold = 500.0

func main() {
	viper.SetDefault("MOCK_ADDR", ":8080")
	viper.AutomaticEnv()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/api/v1/forecast/hourly", func(c *fiber.Ctx) error {
		return c.JSON(syntheticForecast(time.Now()))
	})

	app.Get("/api/v1/alerts/check", func(c *fiber.Ctx) error {
		resp := backend.AlertsResponse{Alerts: []backend.Alert{}}
		forecast := syntheticForecast(time.Now())
		for _, p := range forecast {
			if p.PredictedPower != nil && *p.PredictedPower > criticalLoadThreshold {
				resp.Alerts = append(resp.Alerts, backend.Alert{
					Level:     "critical",
					Message:   fmt.Sprintf("Predicted load %.1f MW exceeds %.0f MW threshold.", *p.PredictedPower, criticalLoadThreshold),
					Timestamp: p.Timestamp,
				})
				break
			}
		}
		return c.JSON(resp)
	})

	app.Get("/api/v1/model/performance", func(c *fiber.Ctx) error {
		xgb, lstm, fusion := 40.55, 49.33, 30.38
		return c.JSON(backend.ModelPerformance{
			XGBoostMAPE:  &xgb,
			LSTMMAPE:     &lstm,
			FusionMAPE:   &fusion,
			MAPEUnit:     "%",
			PrimaryModel: "Hybrid Fusion",
			LastTrained:  time.Now().AddDate(0, 0, -7).Format("2006-01-02"),
		})
	})

	app.Get("/api/v1/data/historical", func(c *fiber.Ctx) error {
		start, err := time.Parse("2006-01-02", c.Query("start"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start date"})
		}
		end, err := time.Parse("2006-01-02", c.Query("end"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end date"})
		}
		return c.JSON(syntheticHistory(start, end))
	})

	app.Get("/api/v1/static/plots/:name", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.Send(web.PlaceholderImage)
	})

	addr := viper.GetString("MOCK_ADDR")
	log.Info().Str("addr", addr).Msg("mock backend listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}

func syntheticForecast(now time.Time) []backend.ForecastPoint {
	base := now.Truncate(time.Hour)
	out := make([]backend.ForecastPoint, 24)
	for i := range out {
		t := base.Add(time.Duration(i+1) * time.Hour)
		p := demandAt(t)
		out[i] = backend.ForecastPoint{
			Timestamp:      t.Format(time.RFC3339),
			PredictedPower: &p,
		}
	}
	return out
}

func syntheticHistory(start, end time.Time) []backend.HistoricalPoint {
	var out []backend.HistoricalPoint
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		p := demandAt(t)
		v := 228 + rand.Float64()*8
		f := 49.8 + rand.Float64()*0.4
		pf := 0.9 + rand.Float64()*0.08
		point := backend.HistoricalPoint{
			Time:        t.Format(time.RFC3339),
			Power:       &p,
			Voltage:     &v,
			Frequency:   &f,
			PowerFactor: &pf,
		}
		// Leave occasional gaps: the real dataset has them and the
		// dashboard must render a placeholder, not crash.
		if rand.Intn(40) == 0 {
			point.Power = nil
		}
		out = append(out, point)
	}
	return out
}

// demandAt follows a rough daily load curve: low overnight, morning ramp,
// evening peak that occasionally crosses the alert threshold.
func demandAt(t time.Time) float64 {
	hour := t.Hour()
	base := 280.0
	switch {
	case hour >= 18 && hour <= 21:
		base = 460
	case hour >= 8 && hour < 18:
		base = 380
	case hour < 6:
		base = 220
	}
	return base + rand.Float64()*80
}
