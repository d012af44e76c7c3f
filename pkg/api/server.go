// Package api serves resume screening, skill extraction, content scoring and
// allocation runs over HTTP.
package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/core/allocator"
	"github.com/jakechorley/placement-allocator/pkg/core/catalog"
	"github.com/jakechorley/placement-allocator/pkg/core/matching"
	"github.com/jakechorley/placement-allocator/pkg/core/services"
	"github.com/jakechorley/placement-allocator/pkg/metrics"
)

const bodyLimit = 16 * 1024 * 1024

// Options configures a Server
type Options struct {
	Logger *zap.Logger

	// Recorder receives allocation and request metrics and backs GET /metrics. Optional.
	Recorder *metrics.Recorder

	// Weights for allocation runs. The zero value uses matching.DefaultWeights.
	Weights matching.Weights
}

// Server is the HTTP API
type Server struct {
	app      *fiber.App
	logger   *zap.Logger
	recorder *metrics.Recorder
	validate *validator.Validate
	scorer   *matching.Scorer
	observer allocator.Observer
}

// NewServer builds the fiber app and registers every route
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	weights := opts.Weights
	if weights == (matching.Weights{}) {
		weights = matching.DefaultWeights()
	}

	observers := []allocator.Observer{services.NewLoggingObserver(logger)}
	if opts.Recorder != nil {
		observers = append(observers, opts.Recorder)
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:   "placement-allocator",
			BodyLimit: bodyLimit,
		}),
		logger:   logger,
		recorder: opts.Recorder,
		validate: validator.New(),
		scorer:   matching.NewScorer(catalog.Default(), weights),
		observer: allocator.MultiObserver(observers...),
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

func (s *Server) registerMiddleware() {
	s.app.Use(accessLogMiddleware(s.logger, s.recorder))
	s.app.Use(errorMiddleware(s.logger))
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.health)

	if s.recorder != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.recorder.Registry(), promhttp.HandlerOpts{})))
	}

	v1 := s.app.Group("/v1")

	resumes := v1.Group("/resumes")
	resumes.Post("/validate", s.validateResume)
	resumes.Post("/skills", s.extractSkills)
	resumes.Post("/score", s.scoreResume)

	v1.Post("/allocations/run", s.runAllocation)
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
