package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dollsheet/internal/auth"
	"dollsheet/internal/charasheet"
	"dollsheet/internal/config"
	"dollsheet/internal/logging"
	"dollsheet/internal/metrics"
	"dollsheet/internal/session"
	"dollsheet/internal/viewer"
	"dollsheet/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	accounts, err := auth.Open(cfg.AuthDBPath)
	if err != nil {
		logger.Fatal("open account store", zap.String("path", cfg.AuthDBPath), zap.Error(err))
	}
	defer func() { _ = accounts.Close() }()

	tmpl, err := web.ParseTemplates(cfg.TemplatesDir)
	if err != nil {
		logger.Fatal("parse templates", zap.String("dir", cfg.TemplatesDir), zap.Error(err))
	}

	store := session.NewMemoryStore[viewer.State]()
	m := metrics.New(store.Len)
	client := charasheet.NewClient(cfg.CharasheetBaseURL, cfg.CharasheetHost, cfg.FetchTimeout, logger.Named("charasheet"))

	srv := &web.Server{
		Viewer:       viewer.New(store, client, logger.Named("viewer"), m),
		Accounts:     accounts,
		Tmpl:         tmpl,
		Logger:       logger.Named("web"),
		Metrics:      m,
		StaticDir:    cfg.StaticDir,
		PDFFontPath:  cfg.PDFFontPath,
		CORSOrigins:  cfg.CORSOrigins,
		CookieSecure: cfg.CookieSecure,
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 15*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}
}
