package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Sternrassler/manifold-client/internal/service"
	"github.com/Sternrassler/manifold-client/pkg/client"
	"github.com/Sternrassler/manifold-client/pkg/manifold"
	"github.com/Sternrassler/manifold-client/pkg/store"
	"github.com/gin-gonic/gin"
)

// Version is reported by the health check.
const Version = "0.1.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *service.Service
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. timeout bounds each lookup;
// zero means no bound beyond the client's own.
func NewHandler(svc *service.Service, timeout time.Duration) *Handler {
	return &Handler{service: svc, timeout: timeout}
}

// SingleRequest is the body of single-compound endpoints.
type SingleRequest struct {
	SMILES    string `json:"smiles" binding:"required"`
	Alerts    bool   `json:"alerts"`
	ExactOnly bool   `json:"exact_only"`
}

// BatchRequest is the body of batch endpoints.
type BatchRequest struct {
	SMILES []string `json:"smiles" binding:"required"`
	Alerts bool     `json:"alerts"`
}

// HealthCheck returns the health status of the gateway
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "manifold-gateway",
		"version": Version,
	})
}

// ReadyCheck reports whether the run store is reachable.
func (h *Handler) ReadyCheck(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// ExactSearch handles POST /v1/exact
func (h *Handler) ExactSearch(c *gin.Context) {
	var req SingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	out, err := h.service.ExactSearch(ctx, req.SMILES, req.ExactOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ExactSearchBatch handles POST /v1/exact/batch
func (h *Handler) ExactSearchBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	out, err := h.service.ExactSearchBatch(ctx, req.SMILES)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Score handles POST /v1/synthetic-accessibility/:algorithm
func (h *Handler) Score(c *gin.Context) {
	algorithm, err := client.ParseAlgorithm(c.Param("algorithm"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req SingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	out, err := h.service.Score(ctx, algorithm, req.SMILES, req.Alerts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ScoreBatch handles POST /v1/synthetic-accessibility/:algorithm/batch
func (h *Handler) ScoreBatch(c *gin.Context) {
	algorithm, err := client.ParseAlgorithm(c.Param("algorithm"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	out, err := h.service.ScoreBatch(ctx, algorithm, req.SMILES, req.Alerts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetRun handles GET /v1/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.service.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// statusFor maps a lookup error to the gateway's HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, manifold.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, manifold.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, manifold.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, store.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStoreDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var merr *manifold.Error
	if errors.As(err, &merr) {
		body["kind"] = merr.Kind
	}
	c.JSON(statusFor(err), body)
}
