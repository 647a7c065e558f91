package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksr-21/smartstock/internal/service"
)

type InventoryHandler struct {
	inventory *service.InventoryService
	now       func() time.Time
}

func NewInventoryHandler(inventory *service.InventoryService, now func() time.Time) *InventoryHandler {
	if now == nil {
		now = time.Now
	}
	return &InventoryHandler{inventory: inventory, now: now}
}

type restockRequest struct {
	Quantity float64 `json:"quantity"`
}

func (h *InventoryHandler) Restock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidParam("body", err), "invalid restock request")
		return
	}

	product, err := h.inventory.Restock(c.Request.Context(), c.Param("owner"), c.Param("product"), req.Quantity)
	if err != nil {
		respondError(c, err, "failed to restock product")
		return
	}

	c.JSON(http.StatusOK, product)
}

type checkoutRequest struct {
	Items []service.CheckoutItem `json:"items"`
}

func (h *InventoryHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidParam("body", err), "invalid checkout request")
		return
	}

	bill, err := h.inventory.Checkout(c.Request.Context(), c.Param("owner"), req.Items, h.now())
	if err != nil {
		respondError(c, err, "failed to complete checkout")
		return
	}

	c.JSON(http.StatusCreated, bill)
}
