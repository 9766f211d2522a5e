// Package web provides a real-time dashboard for a monitoring session
package web

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/drivewatch/go-drivewatch/internal/log"
	"github.com/drivewatch/go-drivewatch/pkg/hub"
	"github.com/drivewatch/go-drivewatch/pkg/monitor"
)

// StateProvider is the read-only surface the dashboard queries per frame.
type StateProvider interface {
	Snapshot() monitor.Snapshot
}

// AlertEntry is one alarm event shown in the dashboard log.
type AlertEntry struct {
	Time     string `json:"time"`
	Severity string `json:"severity"`
	Reason   string `json:"reason"`
	State    string `json:"state"`
}

// Server is the web dashboard server
type Server struct {
	app      *fiber.App
	port     string
	provider StateProvider

	// Alert log buffer (last 200 entries)
	alerts   []AlertEntry
	alertsMu sync.RWMutex

	// Hubs for websocket broadcast
	stateHub *hub.Hub
	alertHub *hub.Hub
}

// NewServer creates a new dashboard server over the given state provider
func NewServer(port string, provider StateProvider) *Server {
	s := &Server{
		port:     port,
		provider: provider,
		alerts:   make([]AlertEntry, 0, 200),
		stateHub: hub.New("state"),
		alertHub: hub.New("alerts"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "DriveWatch Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/alerts", s.handleAlerts)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/state", websocket.New(s.handleStateWS))
	app.Get("/ws/alerts", websocket.New(s.handleAlertsWS))

	s.app = app
	return s
}

// Start starts the web server
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)

	go s.stateHub.Run()
	go s.alertHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "err", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PushState broadcasts the current monitor snapshot to connected
// dashboards. Non-blocking; call it from the frame loop.
func (s *Server) PushState() {
	s.stateHub.BroadcastJSON(s.provider.Snapshot())
}

// PushAlert records an alarm event and broadcasts it.
func (s *Server) PushAlert(req monitor.AlertRequest) {
	entry := AlertEntry{
		Time:     req.At.Format("15:04:05"),
		Severity: req.Severity.String(),
		Reason:   req.Reason,
		State:    req.State.String(),
	}

	s.alertsMu.Lock()
	s.alerts = append(s.alerts, entry)
	if len(s.alerts) > 200 {
		s.alerts = s.alerts[1:]
	}
	s.alertsMu.Unlock()

	s.alertHub.BroadcastJSON(entry)
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.provider.Snapshot())
}

func (s *Server) handleAlerts(c *fiber.Ctx) error {
	s.alertsMu.RLock()
	alerts := make([]AlertEntry, len(s.alerts))
	copy(alerts, s.alerts)
	s.alertsMu.RUnlock()
	return c.JSON(alerts)
}

func (s *Server) handleStateWS(conn *websocket.Conn) {
	client := hub.NewClient(s.stateHub, conn)
	client.Run()
}

func (s *Server) handleAlertsWS(conn *websocket.Conn) {
	client := hub.NewClient(s.alertHub, conn)
	client.Run()
}
