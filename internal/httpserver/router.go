package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"multibuy-autoadd/internal/domain"
	cartsvc "multibuy-autoadd/internal/service/cart"
)

type skuService interface {
	List(ctx context.Context) ([]domain.SKU, error)
	Get(ctx context.Context, id int64) (*domain.SKU, error)
}

type discountService interface {
	List(ctx context.Context) ([]domain.MultiBuyDiscount, error)
	Get(ctx context.Context, id int64) (*domain.MultiBuyDiscount, error)
	Create(ctx context.Context, d domain.MultiBuyDiscount) (*domain.MultiBuyDiscount, error)
}

type cartService interface {
	Create(ctx context.Context, currency string) (*domain.Cart, error)
	Get(ctx context.Context, id int64) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, skuID int64, units int) (*cartsvc.Evaluation, error)
	ChangeItemUnits(ctx context.Context, cartID, itemID int64, units int) (*cartsvc.Evaluation, error)
	Recalculate(ctx context.Context, cartID int64) (*cartsvc.Evaluation, error)
}

// Deps carries the services the router exposes.
type Deps struct {
	SKUSvc      skuService
	DiscountSvc discountService
	CartSvc     cartService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db pinger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.SKUSvc == nil || deps.DiscountSvc == nil || deps.CartSvc == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestIDMiddleware(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	skus := router.Group("/skus")
	skus.GET("", h.listSKUs)
	skus.GET("/:id", h.getSKU)

	discounts := router.Group("/discounts")
	discounts.GET("", h.listDiscounts)
	discounts.POST("", h.createDiscount)
	discounts.GET("/:id", h.getDiscount)

	carts := router.Group("/carts")
	carts.POST("", h.createCart)
	carts.GET("/:id", h.getCart)
	carts.POST("/:id/items", h.addCartItem)
	carts.PATCH("/:id/items/:itemId", h.changeCartItem)
	carts.POST("/:id/recalculate", h.recalculateCart)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
