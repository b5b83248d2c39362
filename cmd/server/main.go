package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"devflow/internal/api"
	"devflow/internal/config"
	"devflow/internal/logger"
	"devflow/internal/revalidate"
	"devflow/internal/router"
	"devflow/internal/services"
	"devflow/internal/session"

	"go.uber.org/zap"
)

const (
	oauthStateTTL    = 10 * time.Minute
	oauthStateLimit  = 10000
	shutdownTimeout  = 30 * time.Second
	readWriteTimeout = 60 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.Log)
	defer log.Sync()

	if cfg.Backend.BaseURL == "" {
		log.Warn("API_BASE_URL is not set; every backend call will fail")
	}

	rdb := revalidate.NewClient(cfg.Redis)
	var states session.StateStore
	if rdb != nil {
		defer rdb.Close()
		states = session.NewRedisStates(rdb, oauthStateTTL)
	} else {
		mem, err := session.NewMemoryStates(oauthStateLimit, oauthStateTTL)
		if err != nil {
			log.Fatal("init oauth state store", zap.Error(err))
		}
		states = mem
	}

	issuer := session.NewIssuer(cfg.Session.JWTSecret, cfg.Session.JWTExpiry)
	svc := services.New(services.Deps{
		API:         api.New(cfg.Backend),
		Revalidate:  revalidate.New(rdb, log),
		AtomicViews: cfg.Backend.AtomicViews,
	}, issuer, services.NewLLMService(cfg.LLM))

	r := router.Setup(cfg, router.Deps{
		Services: svc,
		Issuer:   issuer,
		States:   states,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  readWriteTimeout,
		WriteTimeout: readWriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("DevFlow server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped with error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}
