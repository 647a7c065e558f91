package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ksr-21/smartstock/internal/forecast"
	"github.com/ksr-21/smartstock/internal/service"
)

type ForecastHandler struct {
	forecasts *service.ForecastService
	explain   *service.ExplainService
}

func NewForecastHandler(forecasts *service.ForecastService, explain *service.ExplainService) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts, explain: explain}
}

// bindSimulation decodes an optional JSON scenario body.
func bindSimulation(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return invalidParam("body", err)
	}
	return nil
}

// GetEvents lists the festival presets.
func (h *ForecastHandler) GetEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": forecast.Presets()})
}

func (h *ForecastHandler) GetForecasts(c *gin.Context) {
	horizon, sim, err := parseSimulationQuery(c)
	if err != nil {
		respondError(c, err, "invalid simulation parameters")
		return
	}

	results, err := h.forecasts.Forecasts(c.Request.Context(), c.Param("owner"), horizon, sim)
	if err != nil {
		respondError(c, err, "failed to compute forecasts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"forecasts": results,
		"scenario":  forecast.Describe(sim),
	})
}

// Simulate runs a what-if scenario. ?insight=true adds advisor text.
func (h *ForecastHandler) Simulate(c *gin.Context) {
	var req simulationRequest
	if err := bindSimulation(c, &req); err != nil {
		respondError(c, err, "invalid simulation body")
		return
	}
	sim, err := req.params()
	if err != nil {
		respondError(c, err, "invalid simulation parameters")
		return
	}

	withInsight, _ := strconv.ParseBool(c.DefaultQuery("insight", "false"))

	result, err := h.forecasts.Simulate(c.Request.Context(), c.Param("owner"), req.Horizon, sim, withInsight)
	if err != nil {
		respondError(c, err, "failed to run simulation")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ForecastHandler) ExplainProduct(c *gin.Context) {
	var req simulationRequest
	if err := bindSimulation(c, &req); err != nil {
		respondError(c, err, "invalid simulation body")
		return
	}
	sim, err := req.params()
	if err != nil {
		respondError(c, err, "invalid simulation parameters")
		return
	}

	result, err := h.explain.ExplainProduct(c.Request.Context(), c.Param("owner"), c.Param("product"), sim)
	if err != nil {
		respondError(c, err, "failed to explain forecast")
		return
	}

	c.JSON(http.StatusOK, result)
}

type chatRequest struct {
	simulationRequest
	Message string `json:"message" binding:"required"`
}

func (h *ForecastHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidParam("body", err), "invalid chat request")
		return
	}
	sim, err := req.params()
	if err != nil {
		respondError(c, err, "invalid simulation parameters")
		return
	}

	answer, err := h.explain.Chat(c.Request.Context(), c.Param("owner"), req.Message, sim)
	if err != nil {
		respondError(c, err, "failed to answer chat")
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
