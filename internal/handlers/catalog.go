package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/service"
)

type Catalog struct {
	S      service.CatalogService
	Orders service.OrderService
}

func NewCatalog(s service.CatalogService, orders service.OrderService) *Catalog {
	return &Catalog{S: s, Orders: orders}
}

// idParam parses the :id path segment. Unparseable ids behave like unknown
// ones and yield 404.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}

func (h *Catalog) List(c *gin.Context) {
	f := service.ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))

	res, err := h.S.List(f)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sweets":      res.Sweets,
		"total":       res.Total,
		"totalPages":  res.TotalPages,
		"currentPage": res.CurrentPage,
	})
}

func (h *Catalog) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	sweet, err := h.S.Get(id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sweet": sweet})
}

type sweetReq struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Quantity    *int     `json:"quantity"`
	ImageURL    *string  `json:"imageUrl"`
}

func (r sweetReq) input() service.SweetInput {
	return service.SweetInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Quantity:    r.Quantity,
		ImageURL:    r.ImageURL,
	}
}

func (h *Catalog) Create(c *gin.Context) {
	var req sweetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	sweet, err := h.S.Create(req.input())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sweet created successfully", "sweet": sweet})
}

func (h *Catalog) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req sweetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	sweet, err := h.S.Update(id, req.input())
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sweet": sweet})
}

func (h *Catalog) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.S.Delete(id); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sweet deleted successfully"})
}

func (h *Catalog) Restock(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	sweet, err := h.S.Restock(id, req.Quantity)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Sweet restocked successfully",
		"sweet":       sweet,
		"newQuantity": sweet.Quantity,
	})
}

func (h *Catalog) Purchase(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := struct {
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}{Quantity: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
	}
	order, sweet, err := h.Orders.PurchaseDirect(currentUserID(c), id, req.Quantity, req.Notes)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase successful",
		"order":   order,
		"sweet":   sweet,
	})
}
