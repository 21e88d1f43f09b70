package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/service"
)

type Cart struct {
	S service.CartService
}

func NewCart(s service.CartService) *Cart { return &Cart{S: s} }

func cartBody(message string, sum service.CartSummary) gin.H {
	body := gin.H{
		"cart":        gin.H{"items": sum.Items},
		"totalAmount": sum.TotalAmount,
		"itemCount":   sum.ItemCount,
	}
	if message != "" {
		body["message"] = message
	}
	return body
}

func (h *Cart) Get(c *gin.Context) {
	sum, err := h.S.Get(currentUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody("", sum))
}

func (h *Cart) Add(c *gin.Context) {
	req := struct {
		SweetID  uint `json:"sweetId"`
		Quantity int  `json:"quantity"`
	}{Quantity: 1}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	sum, err := h.S.Add(currentUserID(c), req.SweetID, req.Quantity)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody("Item added to cart", sum))
}

func (h *Cart) Update(c *gin.Context) {
	var req struct {
		SweetID  uint `json:"sweetId"`
		Quantity int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	sum, err := h.S.Update(currentUserID(c), req.SweetID, req.Quantity)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody("Cart updated", sum))
}

func (h *Cart) Remove(c *gin.Context) {
	sweetID, err := strconv.ParseUint(c.Param("sweetId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	sum, err := h.S.Remove(currentUserID(c), uint(sweetID))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody("Item removed from cart", sum))
}

func (h *Cart) Clear(c *gin.Context) {
	sum, err := h.S.Clear(currentUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, cartBody("Cart cleared", sum))
}
