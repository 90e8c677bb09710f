package gateway

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/example/storefront/pkg/audit"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/seed"
	"github.com/example/storefront/pkg/shop"
	"github.com/example/storefront/pkg/store"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Gateway struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	store   store.Store
	placer  *shop.OrderPlacer
	engine  *shop.RecommendationEngine
	auditor *audit.Recorder
}

func NewGateway(cfg *config.Config, logger *zap.Logger, st store.Store, placer *shop.OrderPlacer, engine *shop.RecommendationEngine, auditor *audit.Recorder) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:  cfg,
		logger:  logger,
		router:  router,
		store:   st,
		placer:  placer,
		engine:  engine,
		auditor: auditor,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := g.router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", g.addProduct)
			products.GET("", g.listProducts)
			products.GET("/:id", g.getProduct)
			products.GET("/:id/recommendations", g.recommendProducts)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", g.placeOrder)
		}

		seeds := v1.Group("/seed")
		{
			seeds.POST("/products", g.seedProducts)
			seeds.POST("/orders", g.seedOrders)
		}
	}

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Router exposes the underlying engine for tests.
func (g *Gateway) Router() http.Handler {
	return g.router
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

type addProductRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

func (g *Gateway) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := g.store.CreateProduct(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		if errors.Is(err, store.ErrProductExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "product already exists"})
			return
		}
		g.logger.Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	g.auditor.Record(&audit.ProductAdded{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
	})

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (g *Gateway) listProducts(c *gin.Context) {
	products, err := g.store.Products(c.Request.Context())
	if err != nil {
		g.logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

func (g *Gateway) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := g.store.ProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		g.logger.Error("Failed to get product", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (g *Gateway) recommendProducts(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	ids, err := g.engine.Recommend(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		g.logger.Error("Failed to compute recommendations", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute recommendations"})
		return
	}

	if ids == nil {
		ids = []int64{}
	}
	c.JSON(http.StatusOK, gin.H{"data": ids})
}

type orderItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1"`
}

type placeOrderRequest struct {
	Items []orderItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (g *Gateway) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]shop.RequestedItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = shop.RequestedItem{Name: item.Name, Quantity: item.Quantity}
	}

	order, err := g.placer.Place(c.Request.Context(), items)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product(s) not found"})
		case errors.Is(err, store.ErrDuplicateLine):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "order lists the same product twice"})
		case errors.Is(err, store.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": "order must contain at least one item"})
		default:
			g.logger.Error("Failed to place order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		}
		return
	}

	productIDs := make([]int64, len(order.Lines))
	for i, line := range order.Lines {
		productIDs[i] = line.ProductID
	}
	g.auditor.Record(&audit.OrderPlaced{OrderID: order.ID, ProductIDs: productIDs})

	c.JSON(http.StatusCreated, gin.H{"order_id": order.ID})
}

func (g *Gateway) seedProducts(c *gin.Context) {
	created, err := seed.Products(c.Request.Context(), g.store)
	if err != nil {
		g.logger.Error("Failed to seed products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seed products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (g *Gateway) seedOrders(c *gin.Context) {
	seedValue := time.Now().UnixNano()
	if raw := c.Query("seed"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seed"})
			return
		}
		seedValue = parsed
	}

	count := seed.DefaultOrderCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
			return
		}
		count = parsed
	}

	rng := rand.New(rand.NewSource(seedValue))
	placed, err := seed.Orders(c.Request.Context(), rng, g.store, g.store, count)
	if err != nil {
		g.logger.Error("Failed to seed orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to seed orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"placed": placed})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
