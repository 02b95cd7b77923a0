package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/cache"
	"github.com/fitclash/fitclash/internal/config"
	"github.com/fitclash/fitclash/internal/database"
	"github.com/fitclash/fitclash/internal/events"
	"github.com/fitclash/fitclash/internal/handler"
	"github.com/fitclash/fitclash/internal/logger"
	"github.com/fitclash/fitclash/internal/natsbroker"
	"github.com/fitclash/fitclash/internal/repository"
	"github.com/fitclash/fitclash/internal/service"
	"github.com/fitclash/fitclash/internal/ws"
)

type App struct {
	cfg         *config.Config
	logger      *logger.Logger
	redisClient *cache.RedisClient
	natsClient  *natsbroker.Client
	dynamoDB    *database.DynamoDBClient

	leaderboardService service.LeaderboardService
	activityService    service.ActivityService
	prizeService       service.PrizeService

	eventSubscriber *events.EventSubscriber
	hub             *ws.Hub
	httpServer      *http.Server

	cleanup []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, *apperrors.AppError) {
	app := &App{
		cfg:     cfg,
		cleanup: make([]func() error, 0),
	}

	app.initLogger()

	if err := app.initRedis(); err != nil {
		return nil, err
	}

	if err := app.initNATS(); err != nil {
		return nil, err
	}

	if err := app.initDynamoDB(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.initMessaging(ctx); err != nil {
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

func (a *App) initLogger() {
	if a.cfg.Server.Environment == "development" {
		a.logger = logger.Development("leaderboard")
	} else {
		a.logger = logger.New(logger.Config{
			Level:       a.cfg.Server.LogLevel,
			Format:      "json",
			ServiceName: "leaderboard",
		})
	}
}

func (a *App) initRedis() *apperrors.AppError {
	redisClient, err := cache.NewRedisClient(a.cfg.Redis)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "failed to connect to Redis")
	}

	a.redisClient = redisClient
	a.cleanup = append(a.cleanup, redisClient.Close)

	return nil
}

func (a *App) initNATS() *apperrors.AppError {
	natsClient, err := natsbroker.NewClient(&natsbroker.Config{
		URL:           a.cfg.NATS.URL,
		MaxReconnect:  a.cfg.NATS.MaxReconnect,
		ReconnectWait: time.Duration(a.cfg.NATS.ReconnectWaitSeconds) * time.Second,
		Timeout:       time.Duration(a.cfg.NATS.TimeoutSeconds) * time.Second,
	}, a.logger)
	if err != nil {
		return err
	}

	a.natsClient = natsClient
	a.cleanup = append(a.cleanup, natsClient.Close)

	return nil
}

func (a *App) initDynamoDB() *apperrors.AppError {
	dynamoDB, err := database.NewDynamoDBClient(a.cfg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeServiceUnavailable, "failed to create DynamoDB client")
	}

	a.dynamoDB = dynamoDB

	return nil
}

func (a *App) initServices() {
	scoreRepo := repository.NewScoreRepository(a.redisClient, a.logger)
	detailRepo := repository.NewDetailRepository(
		a.redisClient,
		a.logger,
		a.cfg.Leaderboard.DetailTTL,
		a.cfg.Leaderboard.ActivityTTL,
	)
	prizeRepo := repository.NewPrizeRepository(a.dynamoDB, a.logger)

	notifier := events.NewScoreUpdatePublisher(a.natsClient, a.logger)

	a.leaderboardService = service.NewLeaderboardService(scoreRepo, detailRepo, notifier, a.logger)
	a.activityService = service.NewActivityService(detailRepo, a.logger)
	a.prizeService = service.NewPrizeService(
		a.leaderboardService,
		prizeRepo,
		a.logger,
		a.cfg.Leaderboard.PrizePercentages,
		a.cfg.Leaderboard.PrizeTTL,
	)
}

func (a *App) initMessaging(ctx context.Context) *apperrors.AppError {
	a.eventSubscriber = events.NewEventSubscriber(a.natsClient, a.activityService, a.logger)
	if err := a.eventSubscriber.Start(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.CodeEventSubscribeError, "failed to start event subscriber")
	}

	a.hub = ws.NewHub(a.logger)
	if err := a.hub.Listen(a.natsClient); err != nil {
		return apperrors.Wrap(err, apperrors.CodeEventSubscribeError, "failed to start hub listener")
	}
	a.cleanup = append(a.cleanup, a.hub.Close)

	return nil
}

func (a *App) initHTTP() {
	router := handler.NewRouter(
		handler.NewLeaderboardHandler(a.leaderboardService, a.logger),
		handler.NewActivityHandler(a.activityService, a.logger),
		handler.NewPrizeHandler(a.prizeService, a.logger),
		handler.NewWebSocketHandler(a.hub, a.leaderboardService, a.logger),
	)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

func (a *App) Start() {
	go func() {
		a.logger.Info("HTTP server listening", "port", a.cfg.Server.HTTPPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal("Failed to serve", "error", err)
		}
	}()

	a.logger.Info("Application started successfully")
}

func (a *App) Stop() {
	a.logger.Info("Stopping application...")

	if a.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error("HTTP shutdown error", "error", err)
		}
	}

	for _, cleanup := range a.cleanup {
		if err := cleanup(); err != nil {
			a.logger.Error("Cleanup error", "error", err)
		}
	}

	a.logger.Info("Application stopped")
}
