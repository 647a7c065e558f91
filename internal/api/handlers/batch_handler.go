package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksr-21/smartstock/internal/pipeline"
	"github.com/ksr-21/smartstock/internal/repository"
)

// BatchSource exposes the most recent scheduled refresh.
type BatchSource interface {
	Latest() (pipeline.TickResult, bool)
}

type BatchHandler struct {
	source BatchSource
}

func NewBatchHandler(source BatchSource) *BatchHandler {
	return &BatchHandler{source: source}
}

// GetLatest returns every owner's report from the last refresh.
func (h *BatchHandler) GetLatest(c *gin.Context) {
	result, ok := h.source.Latest()
	if !ok {
		respondError(c, fmt.Errorf("batch refresh: %w", repository.ErrNotFound), "no batch refresh has run yet")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOwnerLatest returns the owner's report and order update count from the
// last refresh.
func (h *BatchHandler) GetOwnerLatest(c *gin.Context) {
	owner := c.Param("owner")

	result, ok := h.source.Latest()
	if !ok {
		respondError(c, fmt.Errorf("batch refresh: %w", repository.ErrNotFound), "no batch refresh has run yet")
		return
	}

	report, ok := result.Report(owner)
	if !ok {
		respondError(c, fmt.Errorf("owner %s: %w", owner, repository.ErrNotFound), "owner not covered by the batch refresh")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed_at":  result.CompletedAt,
		"report":        report,
		"order_updates": result.OrderUpdates[owner],
	})
}
