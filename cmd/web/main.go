package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"docushop.org/docushop-web/internal/backend"
	"docushop.org/docushop-web/internal/cart"
	"docushop.org/docushop-web/internal/catalog"
	"docushop.org/docushop-web/internal/content"
)

func main() {
	addr := flag.String("addr", defaultAddr(), "listen address")
	backendURL := flag.String("backend", envOr("DOCUSHOP_BACKEND_URL", "http://localhost:5000"), "backend API base URL")
	contentDB := flag.String("content-db", envOr("DOCUSHOP_CONTENT_DB", "docushop.db"), "path to the site content database")
	categoryMap := flag.String("categories", os.Getenv("DOCUSHOP_CATEGORY_MAP"), "optional YAML page-to-category map")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, *addr, *backendURL, *contentDB, *categoryMap); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger, addr, backendURL, contentDB, categoryMap string) error {
	resolver := catalog.NewResolver()
	if categoryMap != "" {
		var err error
		resolver, err = catalog.LoadResolver(categoryMap)
		if err != nil {
			return err
		}
	}

	db, err := content.Open(contentDB)
	if err != nil {
		return err
	}
	defer db.Close()

	app, err := newApplication(
		logger,
		catalog.NewClient(backendURL, logger),
		backend.NewClient(backendURL),
		resolver,
		cart.NewSessionSink(),
		content.NewSQLiteStore(db),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("backend", backendURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":4000"
}
