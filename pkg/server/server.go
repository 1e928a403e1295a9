// Package server exposes the analysis engine over HTTP. Routes mirror what
// scam-baiting platforms expect: a health pair, the analyze endpoint under
// two paths, and operator endpoints for session inspection and forced
// report delivery.
package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/tamattalab/sentinal/pkg/config"
	"github.com/tamattalab/sentinal/pkg/engine"
	"github.com/tamattalab/sentinal/pkg/profile"
	"github.com/tamattalab/sentinal/pkg/report"
	"github.com/tamattalab/sentinal/pkg/session"
)

// Server wires the engine and its stores into a fiber app.
type Server struct {
	engine     *engine.Engine
	store      session.Store
	dispatcher *report.Dispatcher
	cfg        *config.Config
	log        *zap.Logger
	app        *fiber.App
}

// New builds the HTTP server. A nil logger disables logging.
func New(e *engine.Engine, store session.Store, dispatcher *report.Dispatcher, cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		engine:     e,
		store:      store,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log,
		app: fiber.New(fiber.Config{
			AppName: "Sentinal",
		}),
	}
	s.routes()
	return s
}

// App exposes the underlying fiber app for serving and tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	s.app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Sentinal honeypot engine running",
		})
	})
	s.app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	// Every mutating endpoint requires the shared key. Auth is the only
	// request failure the API surfaces; everything else degrades.
	s.app.Use(s.requireAPIKey)

	s.app.Post("/analyze", s.handleAnalyze)
	s.app.Post("/api/analyze", s.handleAnalyze)
	s.app.Post("/debug/session/:id", s.handleDebugSession)
	s.app.Post("/report/force/:id", s.handleForceReport)
}

func (s *Server) requireAPIKey(c fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		return c.Next()
	}
	if c.Get("x-api-key") != s.cfg.APIKey {
		s.log.Warn("invalid api key", zap.String("path", c.Path()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid API key"})
	}
	return c.Next()
}

func (s *Server) handleAnalyze(c fiber.Ctx) error {
	resp := s.engine.Analyze(c.Context(), c.Body())
	return c.JSON(resp)
}

func (s *Server) handleDebugSession(c fiber.Ctx) error {
	id := c.Params("id")
	sess, err := s.store.Get(c.Context(), id)
	if err != nil {
		s.log.Error("debug lookup failed", zap.String("sessionId", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "store error"})
	}
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Session not found"})
	}

	behavioral := profile.Build(
		sess.ScamType, sess.EscalationScores, sess.ManipulationTypes,
		sess.RedFlags, sess.ProbingQuestions, sess.AccumulatedKeywords, sess.TurnCount,
	)
	replies := sess.PreviousReplies
	if len(replies) > 3 {
		replies = replies[len(replies)-3:]
	}
	return c.JSON(fiber.Map{
		"session_id":       sess.ID,
		"scam_detected":    sess.ScamDetected,
		"scam_type":        sess.ScamType,
		"message_count":    sess.MessageCount(),
		"turn_count":       sess.TurnCount,
		"intelligence":     sess.Intelligence,
		"report_sent":      sess.ReportSent,
		"notes":            sess.AgentNotes,
		"behavioral":       behavioral,
		"previous_replies": replies,
	})
}

func (s *Server) handleForceReport(c fiber.Ctx) error {
	id := c.Params("id")
	sess, err := s.store.Get(c.Context(), id)
	if err != nil {
		s.log.Error("force report lookup failed", zap.String("sessionId", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "store error"})
	}
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Session not found"})
	}

	payload := report.Build(sess, s.cfg.SecondsPerTurn)
	delivered := true
	if err := s.dispatcher.Dispatch(c.Context(), payload); err != nil {
		s.log.Warn("forced report delivery failed",
			zap.String("sessionId", id), zap.Error(err))
		delivered = false
	}

	if _, err := s.store.Update(c.Context(), id, func(live *session.Session) error {
		live.ReportSent = true
		return nil
	}); err != nil {
		s.log.Error("report latch failed", zap.String("sessionId", id), zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"status":           "success",
		"report_triggered": true,
		"delivered":        delivered,
	})
}
