package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/service"
)

type Auth struct {
	S service.AuthService
}

func NewAuth(s service.AuthService) *Auth { return &Auth{S: s} }

func (h *Auth) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	user, token, err := h.S.Register(req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    user,
		"token":   token,
	})
}

func (h *Auth) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	user, token, err := h.S.Login(req.Email, req.Password)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

func (h *Auth) Me(c *gin.Context) {
	user, err := h.S.GetUser(currentUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
