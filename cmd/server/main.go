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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/database"
	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/logging"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/router"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/service"
)

func main() {
	seed := flag.String("seed", "", "load movie documents from a JSON file and exit")
	consume := flag.Bool("consumer", true, "run the booking log consumer in-process")
	flag.Parse()

	cfg := config.Load()
	log, err := logging.New(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	var rdb *redis.Client
	if c, err := config.NewRedisClient(ctx, config.LoadRedisConfig()); err != nil {
		log.Warn("redis unavailable, running without cache and rate limit", zap.Error(err))
	} else {
		rdb = c
		defer rdb.Close()
	}

	movies := repository.NewMovieRepo(db)
	cat := catalog.NewService(movies, rdb, cfg.CatalogTTL, log)
	if *seed != "" {
		if err := seedMovies(ctx, movies, *seed, log); err != nil {
			log.Fatal("seed", zap.Error(err))
		}
		cat.Invalidate(ctx)
		return
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	pub := &service.AMQPPublisher{URL: cfg.RabbitMQURL, Log: log}
	bookings := service.NewBookingService(repository.NewBookingRepo(db), cat, pub, log)

	if *consume {
		c := &queue.Consumer{URL: cfg.RabbitMQURL, Dir: cfg.BookingLogDir, Log: log}
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log))

	router.RegisterRoutes(e, handler.Health(db))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, log), cfg.JWTSecret)
	router.RegisterCatalog(e,
		handler.NewMovieHandler(cat, seating.NewGenerator(nil)),
		middleware.ResponseCache(config.LoadCacheConfig(), rdb, log))
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, users, log), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

func seedMovies(ctx context.Context, repo *repository.MovieRepo, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := repo.Seed(ctx, f)
	if err != nil {
		return err
	}
	log.Info("seeded movies", zap.Int("count", n), zap.String("file", path))
	return nil
}
