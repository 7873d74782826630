package api

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RootResponse describes the service for clients probing the base URL.
type RootResponse struct {
	Service     string            `json:"service"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

// HealthResponse is the health check reply.
type HealthResponse struct {
	Status            string `json:"status"`
	VectorStoreLoaded bool   `json:"vector_store_loaded"`
	VectorStorePath   string `json:"vector_store_path"`
}

// handleRoot returns a short service description.
func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(RootResponse{
		Service:     "apiscout",
		Description: "Natural language search over ingested OpenAPI documentation",
		Endpoints: map[string]string{
			"GET /health": "health check and store status",
			"POST /query": "semantic search over API documentation",
			"/mcp":        "Model Context Protocol endpoint",
		},
	})
}

// handleHealth reports liveness and whether the vector store is available.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:            "healthy",
		VectorStoreLoaded: s.config.VectorDriver != nil,
		VectorStorePath:   s.config.VectorStorePath,
	})
}
