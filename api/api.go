package api

import (
	"fmt"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	apimcp "github.com/driftwoodlabs/apiscout/api/mcp"
)

// Server is the HTTP API server for querying ingested API documentation.
type Server struct {
	config Config
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The vector driver and embedder are
// injected to allow sharing with the CLI and the MCP server.
func NewServer(config Config) (*Server, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		logger: config.Logger,
		app:    app,
	}

	// IDE assistants connect from arbitrary local origins.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "*",
	}))

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)
	app.Post("/query", s.handleQueryEndpoint)

	if config.VectorDriver != nil && config.Embedder != nil {
		mcpServer, err := apimcp.NewServer(apimcp.Config{
			VectorDriver: config.VectorDriver,
			Embedder:     config.Embedder,
			Logger:       config.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating MCP server: %w", err)
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
