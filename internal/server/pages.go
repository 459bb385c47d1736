package server

import (
	"context"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gridsight/forecast-dashboard/internal/backend"
	"github.com/gridsight/forecast-dashboard/internal/query"
	"github.com/gridsight/forecast-dashboard/internal/view"
	"github.com/gridsight/forecast-dashboard/web"
)

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	forecast, forecastErr := query.Lookup(ctx, s.queries, keyForecast, s.api.HourlyForecast)
	alerts, alertsErr := query.Lookup(ctx, s.queries, keyAlerts, s.api.CheckAlerts)
	perf, perfErr := query.Lookup(ctx, s.queries, keyModel, s.api.ModelPerformance)

	state := view.AlertState{}
	if alertsErr == nil {
		state = view.DeriveAlerts(alerts)
	}

	var fusion *float64
	unit := "%"
	if perfErr == nil && perf != nil {
		fusion = perf.FusionMAPE
		if perf.MAPEUnit != "" {
			unit = perf.MAPEUnit
		}
	}

	return s.render(c, "dashboard.html", fiber.Map{
		"Title":       "Demand Forecast Dashboard",
		"Active":      "dashboard",
		"AlertState":  state,
		"AlertsErr":   alertsErr != nil,
		"ForecastErr": forecastErr != nil,
		"NextHour":    view.FormatNumber(view.NextHour(forecast)),
		"Peak":        view.FormatNumber(view.PeakPower(forecast)),
		"FusionMAPE":  view.FormatNumber(fusion),
		"MAPEUnit":    unit,
		"SeriesJSON":  toJSON(view.ForecastSeries(forecast)),
	})
}

func (s *Server) handleHistorical(c *fiber.Ctx) error {
	ctx := c.UserContext()

	start := c.Query("start")
	end := c.Query("end")
	run := c.Query("run") != ""
	page := c.QueryInt("page", 1)

	armed := validDate(start) && validDate(end)

	var (
		points  []backend.HistoricalPoint
		loadErr error
	)
	if armed {
		key := query.Key("data/historical", start, end)
		if run {
			// Run Analysis always refetches, even for an identical range.
			points, loadErr = query.Refresh(ctx, s.queries, key, s.historicalFetch(start, end))
		} else {
			points, loadErr = query.Lookup(ctx, s.queries, key, s.historicalFetch(start, end))
		}
	}

	page = view.ClampPage(len(points), page)
	lo, hi := view.PageBounds(len(points), page)

	alerts, alertsErr := query.Lookup(ctx, s.queries, keyAlerts, s.api.CheckAlerts)
	state := view.AlertState{}
	if alertsErr == nil {
		state = view.DeriveAlerts(alerts)
	}

	return s.render(c, "historical.html", fiber.Map{
		"Title":      "Historical Analysis",
		"Active":     "historical",
		"AlertState": state,
		"Start":      start,
		"End":        end,
		"Armed":      armed,
		"Errored":    armed && loadErr != nil,
		"Rows":       view.HistoricalRows(points[lo:hi]),
		"Total":      len(points),
		"Page":       page,
		"Pages":      view.Pages(len(points)),
		"SeriesJSON": toJSON(view.HistoricalSeries(points)),
	})
}

func (s *Server) handleModelReport(c *fiber.Ctx) error {
	ctx := c.UserContext()

	perf, perfErr := query.Lookup(ctx, s.queries, keyModel, s.api.ModelPerformance)

	alerts, alertsErr := query.Lookup(ctx, s.queries, keyAlerts, s.api.CheckAlerts)
	state := view.AlertState{}
	if alertsErr == nil {
		state = view.DeriveAlerts(alerts)
	}

	data := fiber.Map{
		"Title":      "Model Performance Report",
		"Active":     "model-report",
		"AlertState": state,
		"PerfErr":    perfErr != nil || perf == nil,
	}
	if perfErr == nil && perf != nil {
		unit := perf.MAPEUnit
		if unit == "" {
			unit = "%"
		}
		data["XGBoost"] = view.FormatNumber(perf.XGBoostMAPE)
		data["LSTM"] = view.FormatNumber(perf.LSTMMAPE)
		data["Fusion"] = view.FormatNumber(perf.FusionMAPE)
		data["MAPEUnit"] = unit
		data["PrimaryModel"] = perf.PrimaryModel
		data["LastTrained"] = perf.LastTrained
	}
	return s.render(c, "model_report.html", data)
}

var plotName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// handlePlot proxies a backend plot image; any failure serves the embedded
// placeholder instead of an error page.
func (s *Server) handlePlot(c *fiber.Ctx) error {
	name := c.Params("name")
	if !plotName.MatchString(name) {
		return s.sendPlaceholder(c)
	}

	b, contentType, err := s.api.PlotImage(c.UserContext(), name)
	if err != nil {
		return s.sendPlaceholder(c)
	}
	if contentType == "" {
		contentType = "image/png"
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(b)
}

func (s *Server) sendPlaceholder(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(web.PlaceholderImage)
}

func (s *Server) historicalFetch(start, end string) query.FetchFunc[[]backend.HistoricalPoint] {
	return func(ctx context.Context) ([]backend.HistoricalPoint, error) {
		return s.api.HistoricalData(ctx, start, end)
	}
}

func validDate(s string) bool {
	if s == "" {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
