// Package gateway exposes the assistant's HTTP surface: product search,
// purchase, user registration/login, and the agent tool registry.
package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/example/salesmate/pkg/audit"
	"github.com/example/salesmate/pkg/auth"
	"github.com/example/salesmate/pkg/catalog"
	"github.com/example/salesmate/pkg/config"
	"github.com/example/salesmate/pkg/purchase"
	"github.com/example/salesmate/pkg/tool"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Gateway struct {
	config       *config.Config
	logger       *zap.Logger
	router       *gin.Engine
	catalog      catalog.Store
	orchestrator *purchase.Orchestrator
	auth         *auth.Service
	trail        *audit.Trail
	registry     *tool.Registry
}

func New(cfg *config.Config, logger *zap.Logger, store catalog.Store, orch *purchase.Orchestrator, authSvc *auth.Service, trail *audit.Trail, registry *tool.Registry) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	g := &Gateway{
		config:       cfg,
		logger:       logger,
		router:       router,
		catalog:      store,
		orchestrator: orch,
		auth:         authSvc,
		trail:        trail,
		registry:     registry,
	}
	g.setupRoutes()
	return g
}

func (g *Gateway) setupRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := g.router.Group("/api/v1")
	{
		v1.GET("/products", g.searchProducts)
		v1.POST("/orders", g.placeOrder)
		v1.GET("/orders/:id/audit", g.orderAudit)

		users := v1.Group("/users")
		{
			users.POST("/register", g.registerUser)
			users.POST("/login", g.loginUser)
			users.POST("/link-chat", g.linkChat)
			users.GET("/profile", g.userProfile)
		}

		tools := v1.Group("/tools")
		{
			tools.GET("", g.listTools)
			tools.POST("/:name", g.invokeTool)
		}
	}
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

// Router exposes the engine for tests.
func (g *Gateway) Router() http.Handler {
	return g.router
}

func (g *Gateway) searchProducts(c *gin.Context) {
	filter := catalog.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	if v := c.Query("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		filter.MinPrice = &d
	}
	if v := c.Query("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		filter.MaxPrice = &d
	}

	var limit int64
	if v := c.Query("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	products, err := g.catalog.Find(c.Request.Context(), filter, limit)
	if err != nil {
		g.logger.Error("Product search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

type placeOrderRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity"`
	Email       string `json:"email"`
}

func (g *Gateway) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	outcome, err := g.orchestrator.Buy(c.Request.Context(), purchase.Request{
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		ContactEmail: req.Email,
	})
	if err != nil {
		g.writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, outcome)
}

func (g *Gateway) writeOrderError(c *gin.Context, err error) {
	var notFound *purchase.ProductNotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %q not found", notFound.Name)})
		return
	}

	var stock *purchase.InsufficientStockError
	if errors.As(err, &stock) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     fmt.Sprintf("insufficient stock for %q", stock.Product),
			"available": stock.Available,
		})
		return
	}

	if errors.Is(err, purchase.ErrInvalidQuantity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
		return
	}

	g.logger.Error("Order placement failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete the purchase, please try again later"})
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Mobile   string `json:"mobile"`
}

func (g *Gateway) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := g.auth.Register(c.Request.Context(), req.Email, req.Password, req.FullName, req.Mobile)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		g.logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (g *Gateway) loginUser(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := g.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		g.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, user)
}

type linkChatRequest struct {
	Email  string `json:"email" binding:"required"`
	ChatID int64  `json:"chat_id" binding:"required"`
}

func (g *Gateway) linkChat(c *gin.Context) {
	var req linkChatRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := g.auth.LinkChat(c.Request.Context(), req.Email, req.ChatID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		g.logger.Error("Chat link failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not link chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) userProfile(c *gin.Context) {
	email := c.Query("email")

	if chat := c.Query("chat_id"); email == "" && chat != "" {
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat_id"})
			return
		}
		user, err := g.auth.ProfileByChatID(c.Request.Context(), chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, user)
		return
	}

	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or chat_id is required"})
		return
	}

	user, err := g.auth.Profile(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// orderAudit exposes the recorded trail for one order, newest first.
func (g *Gateway) orderAudit(c *gin.Context) {
	if g.trail == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit trail unavailable"})
		return
	}

	limit := int64(20)
	if v := c.Query("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := g.trail.ByEntity(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		g.logger.Error("Audit lookup failed", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

func (g *Gateway) listTools(c *gin.Context) {
	type toolInfo struct {
		Name        string                 `json:"name"`
		Description string                 `json:"description"`
		InputSchema map[string]interface{} `json:"input_schema"`
	}

	var tools []toolInfo
	for _, cmd := range g.registry.Commands() {
		tools = append(tools, toolInfo{
			Name:        cmd.Name(),
			Description: cmd.Description(),
			InputSchema: cmd.InputSchema(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

func (g *Gateway) invokeTool(c *gin.Context) {
	name := c.Param("name")
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	result, err := g.registry.Invoke(c.Request.Context(), name, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
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
