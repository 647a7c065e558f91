package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksr-21/smartstock/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
	now    func() time.Time
}

func NewOrderHandler(orders *service.OrderService, now func() time.Time) *OrderHandler {
	if now == nil {
		now = time.Now
	}
	return &OrderHandler{orders: orders, now: now}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), c.Param("owner"), parseRole(c))
	if err != nil {
		respondError(c, err, "failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidParam("body", err), "invalid order request")
		return
	}
	req.RetailerID = c.Param("owner")

	order, err := h.orders.Place(c.Request.Context(), req, h.now())
	if err != nil {
		respondError(c, err, "failed to place order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidParam("body", err), "invalid status request")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("order"), req.Status)
	if err != nil {
		respondError(c, err, "failed to update order status")
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) SearchSuppliers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	suppliers, err := h.orders.SearchSuppliers(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err, "failed to search suppliers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

// GetContactLink returns a WhatsApp link asking the supplier for the
// recommended restock.
func (h *OrderHandler) GetContactLink(c *gin.Context) {
	link, err := h.orders.ContactLink(c.Request.Context(), c.Param("owner"), c.Param("product"))
	if err != nil {
		respondError(c, err, "failed to build contact link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": link})
}
