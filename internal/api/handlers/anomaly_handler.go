package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksr-21/smartstock/internal/notify"
	"github.com/ksr-21/smartstock/internal/service"
)

type AnomalyHandler struct {
	anomalies *service.AnomalyService
	overview  *service.OverviewService
	now       func() time.Time
}

func NewAnomalyHandler(anomalies *service.AnomalyService, overview *service.OverviewService, now func() time.Time) *AnomalyHandler {
	if now == nil {
		now = time.Now
	}
	return &AnomalyHandler{anomalies: anomalies, overview: overview, now: now}
}

func (h *AnomalyHandler) GetAnomalies(c *gin.Context) {
	day, err := parseDay(c, "date", h.now())
	if err != nil {
		respondError(c, err, "invalid date")
		return
	}

	feed, err := h.anomalies.Feed(c.Request.Context(), c.Param("owner"), parseRole(c), day)
	if err != nil {
		respondError(c, err, "failed to detect anomalies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"anomalies": feed, "total": len(feed)})
}

// GetNotifications returns the newest order status changes for the drawer.
func (h *AnomalyHandler) GetNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(notify.DefaultFeedLimit)))
	if err != nil || limit <= 0 {
		limit = notify.DefaultFeedLimit
	}

	items, err := h.anomalies.Notifications(c.Request.Context(), c.Param("owner"), parseRole(c), h.now(), limit)
	if err != nil {
		respondError(c, err, "failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *AnomalyHandler) GetOverview(c *gin.Context) {
	overview, err := h.overview.Overview(c.Request.Context(), c.Param("owner"), parseRole(c), h.now())
	if err != nil {
		respondError(c, err, "failed to build overview")
		return
	}

	c.JSON(http.StatusOK, overview)
}
