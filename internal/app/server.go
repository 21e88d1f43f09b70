package app

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/handlers"
	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/service"
)

// NewServer connects to the database, runs migrations and returns the
// configured engine plus a cleanup closing the connection.
func NewServer(cfg Config) (*gin.Engine, func(), error) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Sweet{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if s, err := db.DB(); err == nil {
			_ = s.Close()
		}
	}
	return NewRouter(cfg, db), cleanup, nil
}

// NewRouter wires services, handlers and routes over an already-open DB.
// Split out of NewServer so tests can run the real router against an
// in-memory database.
func NewRouter(cfg Config, db *gorm.DB) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	email := service.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	authSvc := service.NewAuthService(db, []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.BcryptCost)
	catalogSvc := service.NewCatalogService(db)
	cartSvc := service.NewCartService(db)
	orderSvc := service.NewOrderService(db, email)

	auth := handlers.NewAuth(authSvc)
	catalog := handlers.NewCatalog(catalogSvc, orderSvc)
	cart := handlers.NewCart(cartSvc)
	orders := handlers.NewOrders(orderSvc)

	requireAuth := handlers.RequireAuth(authSvc)
	requireAdmin := handlers.RequireAdmin()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "SweetShop API is running"})
	})

	a := r.Group("/api/auth")
	{
		a.POST("/register", auth.Register)
		a.POST("/login", auth.Login)
		a.GET("/me", requireAuth, auth.Me)
	}

	s := r.Group("/api/Sweet")
	{
		s.GET("", catalog.List)
		s.GET("/:id", catalog.Get)
		s.POST("", requireAuth, requireAdmin, catalog.Create)
		s.PUT("/:id", requireAuth, requireAdmin, catalog.Update)
		s.DELETE("/:id", requireAuth, requireAdmin, catalog.Delete)
		s.POST("/:id/restock", requireAuth, requireAdmin, catalog.Restock)
		s.POST("/:id/purchase", requireAuth, catalog.Purchase)
	}

	ct := r.Group("/api/cart", requireAuth)
	{
		ct.GET("", cart.Get)
		ct.POST("/add", cart.Add)
		ct.PUT("/update", cart.Update)
		ct.DELETE("/remove/:sweetId", cart.Remove)
		ct.DELETE("/clear", cart.Clear)
	}

	o := r.Group("/api/orders", requireAuth)
	{
		o.POST("", orders.Create)
		o.GET("", orders.List)
		o.GET("/:id", orders.Get)
		o.PUT("/:id/cancel", orders.Cancel)
		o.PUT("/:id/status", requireAdmin, orders.SetStatus)
	}

	// Dev convenience: reset the catalog to a sample set.
	r.POST("/api/admin/seed", requireAuth, requireAdmin, func(c *gin.Context) {
		if err := seedSweets(db); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Seed failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Static SPA with /api-aware fallback.
	r.Static("/assets", "./web/assets")
	r.GET("/", func(c *gin.Context) { c.File("./web/index.html") })
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/assets/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		c.File("./web/index.html")
	})

	return r
}

func seedSweets(db *gorm.DB) error {
	if err := db.Where("1 = 1").Delete(&model.Sweet{}).Error; err != nil {
		return err
	}
	samples := []model.Sweet{
		{Name: "Dark Chocolate Truffle", Description: "Rich 70% cocoa truffles dusted with cacao", Price: 12.50, Category: "Chocolate", Quantity: 40, ImageURL: "https://picsum.photos/seed/truffle/600/400"},
		{Name: "Sour Gummy Bears", Description: "Tangy fruit-flavored gummy bears", Price: 4.25, Category: "Gummy", Quantity: 120, ImageURL: "https://picsum.photos/seed/gummy/600/400"},
		{Name: "Butterscotch Drops", Description: "Classic hard candy with real butter", Price: 3.75, Category: "Hard Candy", Quantity: 80, ImageURL: "https://picsum.photos/seed/drops/600/400"},
		{Name: "Chocolate Chip Cookies", Description: "Crisp-edged cookies loaded with chocolate chips", Price: 6.00, Category: "Cookies", Quantity: 50, ImageURL: "https://picsum.photos/seed/cookies/600/400"},
		{Name: "Red Velvet Cake", Description: "Layered red velvet with cream cheese frosting", Price: 20.00, Category: "Cakes", Quantity: 10, ImageURL: "https://picsum.photos/seed/cake/600/400"},
	}
	for i := range samples {
		if err := db.Create(&samples[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
