package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"multibuy-autoadd/internal/config"
	"multibuy-autoadd/internal/db"
	"multibuy-autoadd/internal/httpserver"
	cartrepo "multibuy-autoadd/internal/repository/cart"
	discountrepo "multibuy-autoadd/internal/repository/discount"
	skurepo "multibuy-autoadd/internal/repository/sku"
	cartsvc "multibuy-autoadd/internal/service/cart"
	discountsvc "multibuy-autoadd/internal/service/discount"
	skusvc "multibuy-autoadd/internal/service/sku"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	skuRepo := skurepo.NewPostgres(dbpool, logger)
	discountRepo := discountrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		SKUSvc:      skusvc.New(skuRepo),
		DiscountSvc: discountsvc.New(discountRepo),
		CartSvc:     cartsvc.New(cartRepo, skuRepo, discountRepo, logger),
	}, cfg.CORSAllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
