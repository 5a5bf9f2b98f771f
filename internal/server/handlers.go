package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/njchilds90/symexpr"
	"github.com/njchilds90/symexpr/internal/metrics"
)

// ErrorResponse is returned for requests that never reach a tool.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Handlers serves the tool endpoints.
type Handlers struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandlers(logger *slog.Logger, m *metrics.Metrics) *Handlers {
	return &Handlers{logger: logger, metrics: m}
}

// HandleTool decodes a ToolRequest and runs it. Tool failures are reported
// with status 200 and the error field set; only undecodable bodies get 4xx.
func (h *Handlers) HandleTool(c *gin.Context) {
	logger := h.logger.With("request_id", c.GetString(requestIDKey), "handler", "HandleTool")

	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req symexpr.ToolRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Request body too large", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "request body too large",
				Code:  "BODY_TOO_LARGE",
			})
			return
		}
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid JSON: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid JSON: trailing data",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	scalar, err := symexpr.ScalarOf(req)
	if err != nil {
		scalar = "invalid"
	}

	start := time.Now()
	resp := symexpr.HandleToolCall(req)
	elapsed := time.Since(start)
	h.metrics.Observe(req.Tool, scalar, resp.Error == "", elapsed)

	if resp.Error != "" {
		logger.Info("Tool call failed", "tool", req.Tool, "scalar", scalar, "error", resp.Error, "duration", elapsed)
	} else {
		logger.Debug("Tool call", "tool", req.Tool, "scalar", scalar, "duration", elapsed)
	}
	c.JSON(http.StatusOK, resp)
}

// HandleSchema returns the tool schema for agent registration.
func (h *Handlers) HandleSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(symexpr.ToolSpec()))
}

func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
