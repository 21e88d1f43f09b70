package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/service"
)

type Orders struct {
	S service.OrderService
}

func NewOrders(s service.OrderService) *Orders { return &Orders{S: s} }

func (h *Orders) Create(c *gin.Context) {
	var req struct {
		Items []struct {
			Sweet    uint `json:"sweet"`
			Quantity int  `json:"quantity"`
		} `json:"items"`
		Notes string `json:"notes"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
	}
	lines := make([]service.CheckoutLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.CheckoutLine{SweetID: it.Sweet, Quantity: it.Quantity})
	}
	order, err := h.S.Checkout(currentUserID(c), lines, req.Notes)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

func (h *Orders) List(c *gin.Context) {
	orders, totalSpent, err := h.S.ListForUser(currentUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     orders,
		"totalSpent": totalSpent,
		"count":      len(orders),
	})
}

// Get looks an order up for the current user. The path segment is a
// numeric id or an order number like ORD-000042.
func (h *Orders) Get(c *gin.Context) {
	var (
		order model.Order
		err   error
	)
	raw := c.Param("id")
	if id, perr := strconv.ParseUint(raw, 10, 64); perr == nil {
		order, err = h.S.GetForUser(currentUserID(c), uint(id))
	} else {
		order, err = h.S.GetByNumberForUser(currentUserID(c), raw)
	}
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Orders) Cancel(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := h.S.Cancel(currentUserID(c), id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}

func (h *Orders) SetStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	order, err := h.S.SetStatus(id, req.Status)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
}
