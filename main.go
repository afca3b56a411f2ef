package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"image-api/config"
	"image-api/database"
	"image-api/internal/api/images"
	routes "image-api/internal/app/http"
	"image-api/internal/infra/gormstore"
	"image-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger error: %s", err)
	}
	defer l.Sync()

	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DBDriver, cfg.DBURL, l)
	if err != nil {
		l.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			l.Error("failed to close database", zap.Error(err))
		}
	}()

	ser, err := images.NewSerializer()
	if err != nil {
		l.Fatal("invalid image serializer", zap.Error(err))
	}

	r := routes.NewEngine(routes.Deps{
		DB:         db,
		Images:     images.NewHandler(gormstore.NewImageStore(db), ser, l),
		Log:        l,
		JWTSecret:  cfg.JWTSecret,
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("db_driver", cfg.DBDriver),
			zap.Bool("writes_protected", cfg.WritesProtected()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
	}

	l.Info("server exited")
}
