package main

import (
	"context"
	"log"

	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskstack/backend/api/handler"
	"github.com/taskstack/backend/internal/config"
	"github.com/taskstack/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskstack/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskstack/backend/internal/infrastructure/redis"
	"github.com/taskstack/backend/internal/middleware"
	"github.com/taskstack/backend/internal/router"
	"github.com/taskstack/backend/internal/services/lifecycle"
	"github.com/taskstack/backend/internal/validation"
	"github.com/taskstack/backend/pkg/httpcontext"
	"github.com/taskstack/backend/pkg/logger"
	"github.com/taskstack/backend/repository"
	"github.com/taskstack/backend/repository/boltdb"
	"github.com/taskstack/backend/repository/memory"
	pgRepo "github.com/taskstack/backend/repository/postgres"
	redisRepo "github.com/taskstack/backend/repository/redis"
	taskUC "github.com/taskstack/backend/usecase/task"
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

	taskRepo, err := buildRepository(appCtx, cfg, zapLogger, manager)
	if err != nil {
		zapLogger.Fatal("storage setup failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	var cacheClient *redislib.Client
	if cfg.Redis.Enabled {
		client, err := redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return client.Close()
		})
		taskRepo = redisRepo.NewTaskCache(taskRepo, client, cfg.Redis.CacheTTL, zapLogger)
		cacheClient = client
	}

	mon := monitor.New(cfg.Store.Driver, taskRepo, cacheClient, cfg.Monitor.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	taskUseCase := taskUC.New(taskRepo, zapLogger)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	payloadValidator := validation.New()

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, payloadValidator, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	accessLog := middleware.AccessLog(zapLogger)
	r := router.New(handlers, accessLog)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("driver", cfg.Store.Driver),
		)
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

func buildRepository(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger, manager *lifecycle.Manager) (repository.TaskRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverBolt:
		store, err := boltdb.Open(cfg.Store.BoltPath)
		if err != nil {
			return nil, err
		}
		manager.Register("boltdb", func(ctx context.Context) error {
			return store.Close()
		})
		return store, nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		return pgRepo.NewTaskRepository(pool), nil

	default:
		return memory.NewTaskRepository(), nil
	}
}
