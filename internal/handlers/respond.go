package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/service"
)

// errorResponse maps service errors onto the HTTP taxonomy. Unexpected
// errors become a 500 whose detail is only exposed in debug mode.
func errorResponse(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var sErr *service.StockError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": vErr.Fields})
	case errors.As(err, &sErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": sErr.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrCartEmpty),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrOrderReceived):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.Request.URL.Path, "error", err)
		msg := "Internal server error"
		if gin.IsDebugging() {
			msg = err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
