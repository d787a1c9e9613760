package main // HTTP API entry point

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/renotrack/renovation-tracker/internal/config"
	"github.com/renotrack/renovation-tracker/internal/database"
	"github.com/renotrack/renovation-tracker/internal/handler"
	"github.com/renotrack/renovation-tracker/internal/inference"
	"github.com/renotrack/renovation-tracker/internal/middleware"
	"github.com/renotrack/renovation-tracker/internal/queue"
	"github.com/renotrack/renovation-tracker/internal/repository"
	"github.com/renotrack/renovation-tracker/internal/router"
	"github.com/renotrack/renovation-tracker/internal/scraper"
	"github.com/renotrack/renovation-tracker/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.NewLogger("renotrack")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal(err)
	}

	// A nil client turns the cache and the limiter into pass-throughs.
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	switch {
	case err != nil:
		logger.Warnf("redis unavailable, cache and rate limiting disabled: %v", err)
	case rdb == nil:
		logger.Info("redis disabled")
	default:
		defer rdb.Close()
	}

	listings := repository.NewListingRepo(db)
	renovations := repository.NewRenovationRepo(db)
	photos := repository.NewPhotoRepo(db)

	infCfg := config.LoadInferenceConfig()
	extractor, err := inference.NewExtractor(infCfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	classifier := inference.NewRoomClassifier(infCfg)
	if classifier == nil {
		logger.Info("ROOM_CLASSIFIER_URL not set, photo inference disabled")
	}
	photoInference := service.NewPhotoInference(photos, classifier, logger)
	cacheCfg := config.LoadCacheConfig()
	if purger := middleware.NewCachePurger(cacheCfg, rdb); purger != nil {
		photoInference.PurgeCacheWith(purger)
	}

	qCfg := config.LoadQueueConfig()
	var publisher service.EventPublisher
	if qCfg.Enabled {
		publisher = service.NewPublisher(qCfg, logger)
	}

	browser := scraper.NewChromeBrowser(config.LoadScraperConfig(), logger)
	importer := service.NewImporter(scraper.New(browser), listings, extractor, publisher, logger)

	hide := cfg.IsProd()
	h := router.Handlers{
		Listings:    handler.NewListingHandler(listings, importer, hide),
		Renovations: handler.NewRenovationHandler(renovations, hide),
		Photos:      handler.NewPhotoHandler(photos, photoInference, hide),
		Predict:     handler.NewPredictHandler(extractor, hide),
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Errorf("%s %s %d %s id=%s err=%v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			logger.Infof("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, h, middleware.NewRedisCache(cacheCfg, rdb), cfg.JWTSecret)

	switch {
	case qCfg.Enabled && classifier == nil:
		logger.Warn("queue enabled without a room classifier; listing.imported events are left for an external worker")
	case qCfg.Enabled:
		worker := queue.NewConsumer(qCfg, photoInference.HandleListingImported, logger)
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("queue worker stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
