package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/studygo/planner/api/handler"
	"github.com/studygo/planner/internal/config"
	"github.com/studygo/planner/internal/middleware"
	"github.com/studygo/planner/internal/router"
	"github.com/studygo/planner/internal/services"
	"github.com/studygo/planner/internal/services/lifecycle"
	"github.com/studygo/planner/pkg/httpcontext"
	"github.com/studygo/planner/pkg/logger"
	boltRepo "github.com/studygo/planner/repository/bolt"
	identityUC "github.com/studygo/planner/usecase/identity"
	plannerUC "github.com/studygo/planner/usecase/planner"
	"github.com/studygo/planner/usecase/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := boltRepo.Open(cfg.Storage.Path, cfg.Storage.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	manager.Register("snapshot_store", func(ctx context.Context) error {
		return store.Close()
	})

	persister := services.NewPersister(store, zapLogger, services.PersisterConfig{
		RetryInterval: cfg.Persister.RetryInterval,
		SaveTimeout:   cfg.Persister.SaveTimeout,
	})
	persister.Start()
	manager.Register("persister", func(ctx context.Context) error {
		persister.Stop(ctx)
		return nil
	})

	state := session.Load(appCtx, persister, zapLogger)

	identityUseCase := identityUC.New(state, zapLogger)
	plannerUseCase := plannerUC.New(state, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(identityUseCase, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(plannerUseCase, ctxAdapter, zapLogger),
		Progress: apiHandler.NewProgressHandler(identityUseCase, plannerUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(persister, ctxAdapter, zapLogger),
	}

	sessionMiddleware := middleware.RequireSession(func() bool {
		return identityUseCase.CurrentUser() != nil
	}, zapLogger)
	r := router.New(handlers, sessionMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
