package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apiquery "github.com/driftwoodlabs/apiscout/api/query"
)

const maxTopK = 20

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Query string `json:"query"`

	// K is a pointer so an absent field can fall back to the default while
	// an explicit 0 still fails validation.
	K *int `json:"k"`
}

// handleQueryEndpoint handles POST /query requests.
func (s *Server) handleQueryEndpoint(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error: "invalid request body: " + err.Error(),
		})
	}

	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error: "query must be a non-empty string",
		})
	}

	topK := apiquery.DefaultTopK
	if req.K != nil {
		if *req.K < 1 || *req.K > maxTopK {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error: "k must be between 1 and 20",
			})
		}
		topK = *req.K
	}

	if s.config.VectorDriver == nil || s.config.Embedder == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "vector store not loaded: run ingestion first",
		})
	}

	output, err := apiquery.Search(
		c.Context(),
		req.Query,
		topK,
		s.config.Embedder,
		s.config.VectorDriver,
		s.logger,
	)
	if err != nil {
		s.logger.Error("query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(output)
}
