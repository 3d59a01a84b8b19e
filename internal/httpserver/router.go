package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"flowershop/internal/domain"
	authsvc "flowershop/internal/service/auth"
	"flowershop/internal/service/catalog"
	ordersvc "flowershop/internal/service/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Verify(token string) (authsvc.Claims, error)
}

type OrderService interface {
	Create(ctx context.Context, actor ordersvc.Actor, in ordersvc.CreateInput) (*domain.Order, error)
	ListByUser(ctx context.Context, actor ordersvc.Actor, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context, actor ordersvc.Actor) ([]domain.Order, error)
	Get(ctx context.Context, actor ordersvc.Actor, orderID string) (*domain.Order, error)
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus, actingUserID string) (*domain.Order, error)
	MarkCompleted(ctx context.Context, orderID string) (*domain.Order, error)
	AttachUploadedReceipt(ctx context.Context, orderID, filePath, actingUserID string) (*domain.Order, error)
	ReceiptHTML(ctx context.Context, actor ordersvc.Actor, orderID string) (string, error)
}

type CatalogService interface {
	ListProducts(ctx context.Context, q catalog.ProductQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListAddOns(ctx context.Context) ([]domain.AddOn, error)
	GetAddOn(ctx context.Context, id string) (*domain.AddOn, error)
}

// ReceiptUploads stores admin-uploaded receipt files and returns their public pointers.
type ReceiptUploads interface {
	Put(name string, src io.Reader) (string, error)
	Remove(pointer string) error
}

// Deps carries the services and settings the router needs.
type Deps struct {
	AuthSvc    AuthService
	OrderSvc   OrderService
	CatalogSvc CatalogService

	// UploadsDir is served at /uploads.
	UploadsDir string
	Uploads    ReceiptUploads
	CORSOrigin string
	Production bool
	Now        func() time.Time
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, ready ReadyCheck, deps Deps) (*gin.Engine, error) {
	if deps.AuthSvc == nil || deps.OrderSvc == nil || deps.CatalogSvc == nil {
		return nil, errors.New("httpserver: auth, order and catalog services are required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(ready))
	if deps.UploadsDir != "" {
		router.Static("/uploads", deps.UploadsDir)
	}

	h := &handlers{deps: deps, logger: logger}
	api := router.Group("/api")

	api.POST("/auth/login", h.login)

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/addOns", h.listAddOns)
	api.GET("/addOns/:id", h.getAddOn)

	orders := api.Group("/orders", authMiddleware(deps.AuthSvc))
	orders.POST("", h.createOrder)
	orders.GET("", requireAdmin(), h.listAllOrders)
	orders.GET("/order/:orderId", h.getOrder)
	orders.GET("/:id", h.listUserOrders)
	orders.PUT("/:id/status", requireAdmin(), h.updateStatus)
	orders.POST("/:id/uploadReceipt", requireAdmin(), h.uploadReceipt)
	orders.PUT("/:id/complete", requireAdmin(), h.completeOrder)
	orders.GET("/:id/receiptHtml", h.receiptHTML)

	return router, nil
}

func corsConfig(deps Deps) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowCredentials = true
	if deps.Production && deps.CORSOrigin != "" {
		cfg.AllowOrigins = []string{deps.CORSOrigin}
	} else {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cfg
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
