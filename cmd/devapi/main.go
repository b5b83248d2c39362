package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"devflow/internal/config"
	"devflow/internal/db"
	"devflow/internal/devapi"
	"devflow/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// devapi serves a local copy of the resource API for development.
func main() {
	cfg := config.Load()
	log := logger.Init(cfg.Log)
	defer log.Sync()

	gdb, err := db.Open(cfg.DevAPI)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode())
	s := devapi.New(gdb)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.Ranker().Run(ctx)
	go rescoreDaily(ctx, s.Ranker())

	srv := &http.Server{Addr: ":" + cfg.DevAPI.Port, Handler: s.Engine()}
	go func() {
		log.Info("devapi listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("devapi stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("devapi shutdown error", zap.Error(err))
	}
}

// rescoreDaily refreshes recent and top questions at 03:00 every day.
func rescoreDaily(ctx context.Context, r *devapi.Ranker) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}
		n, err := r.RefreshRecent(ctx)
		if err != nil {
			logger.L().Warn("daily rescore failed", zap.Int("done", n), zap.Error(err))
			continue
		}
		logger.L().Info("daily rescore finished", zap.Int("questions", n))
	}
}
