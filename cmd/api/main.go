package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/genadi53/next-ismp-sub001/internal/alias"
	aliasStore "github.com/genadi53/next-ismp-sub001/internal/alias/store"
	"github.com/genadi53/next-ismp-sub001/internal/auth"
	"github.com/genadi53/next-ismp-sub001/internal/config"
	"github.com/genadi53/next-ismp-sub001/internal/database"
	"github.com/genadi53/next-ismp-sub001/internal/export"
	plansHttp "github.com/genadi53/next-ismp-sub001/internal/http"
	aliasHandler "github.com/genadi53/next-ismp-sub001/internal/http/alias"
	exportHandler "github.com/genadi53/next-ismp-sub001/internal/http/export"
	planHandler "github.com/genadi53/next-ismp-sub001/internal/http/plan"
	"github.com/genadi53/next-ismp-sub001/internal/importer"
	"github.com/genadi53/next-ismp-sub001/internal/importer/mapping"
	"github.com/genadi53/next-ismp-sub001/internal/importer/workbook"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
	planStore "github.com/genadi53/next-ismp-sub001/internal/plan/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET is empty, imports are attributed to the dev user", "user", cfg.Auth.DevUser)
	}

	var (
		planService   = plan.NewService(planStore.New(db))
		aliasService  = alias.NewService(aliasStore.New(db))
		importService = importer.NewService(workbook.NewReader(cfg.Import.MaxRows), mapping.NewDateNormalizer(time.Now))
		exportService = export.NewService(planService)
	)

	var (
		planH   = planHandler.NewHandler(planService, importService, aliasService, cfg.Import.MaxFileBytes)
		aliasH  = aliasHandler.NewHandler(aliasService)
		exportH = exportHandler.NewHandler(exportService)
	)

	router := plansHttp.New(plansHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Auth:        auth.Middleware([]byte(cfg.Auth.JWTSecret), cfg.Auth.DevUser),
	}, planH, aliasH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
