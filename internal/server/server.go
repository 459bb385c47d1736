package server

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/gridsight/forecast-dashboard/internal/backend"
	"github.com/gridsight/forecast-dashboard/internal/query"
	"github.com/gridsight/forecast-dashboard/web"
)

const (
	keyForecast = "forecast/hourly"
	keyAlerts   = "alerts/check"
	keyModel    = "model/performance"
)

type Server struct {
	app          *fiber.App
	tmpl         *template.Template
	api          *backend.Client
	queries      *query.Client
	hub          *hub
	pollInterval time.Duration
}

func New(api *backend.Client, queries *query.Client, pollInterval time.Duration) *Server {
	funcMap := template.FuncMap{
		"toJSON": toJSON,
	}
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseFS(web.Templates, "templates/*.html"))

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "forecast-dashboard",
			DisableStartupMessage: true,
		}),
		tmpl:         tmpl,
		api:          api,
		queries:      queries,
		hub:          newHub(),
		pollInterval: pollInterval,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(cors.New())

	s.app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Static),
		PathPrefix: "static",
	}))

	s.app.Get("/healthz", s.handleHealthz)
	s.app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.hub.serve))

	s.app.Get("/", s.handleDashboard)
	s.app.Get("/dashboard", s.handleDashboard)
	s.app.Get("/historical", s.handleHistorical)
	s.app.Get("/model-report", s.handleModelReport)
	s.app.Get("/plots/:name", s.handlePlot)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Run starts the websocket hub and the alerts poller; both stop when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) {
	go s.hub.run(ctx)
	go query.Poll(ctx, s.queries, keyAlerts, s.pollInterval, s.api.CheckAlerts, s.hub.publishAlerts)
}

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	status := "online"
	if _, err := s.api.ModelPerformance(ctx); err != nil {
		status = "offline"
	}
	return c.JSON(fiber.Map{"status": status, "backend": s.api.BaseURL()})
}

func (s *Server) render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		return fiber.NewError(fiber.StatusInternalServerError, "template error")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func toJSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}
