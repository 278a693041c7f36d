package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	hasher := auth.NewHasher(cfg.PwdHashSalt, cfg.PwdHashIterations)
	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		Algorithm:  cfg.JWTAlgorithm,
		AccessTTL:  cfg.AccessTTL(),
		RefreshTTL: cfg.RefreshTTL(),
	})
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	users := repository.NewUserRepo(db)
	authSvc, err := service.NewAuthService(users, hasher, tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	if created, err := service.EnsureAdmin(ctx, users, hasher, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	} else if created {
		log.Printf("created admin account %q", cfg.AdminUsername)
	}

	events := service.NewAsyncPublisher(service.NewAMQPPublisher(cfg.RabbitMQURL), 256)
	if cfg.EventsConsumer && cfg.RabbitMQURL != "" {
		go func() {
			if err := queue.StartCatalogConsumer(ctx, cfg.RabbitMQURL, cfg.EventsLogPath); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("catalog consumer stopped: %v", err)
			}
		}()
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	rl := config.LoadRateLimitConfig()

	e := echo.New()
	e.HideBanner = true
	if cfg.Env == "prod" {
		e.Logger.SetLevel(glog.INFO)
	} else {
		e.Logger.SetLevel(glog.DEBUG)
	}
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, router.Deps{
		DB:          db,
		Auth:        handler.NewAuthHandler(authSvc),
		Catalog:     handler.NewCatalogHandler(repository.NewMovieRepo(db), repository.NewDirectorRepo(db), repository.NewGenreRepo(db), events),
		Users:       handler.NewUserHandler(users, hasher, events),
		Tokens:      tokens,
		Gates:       cfg.Gates,
		Limiter:     middleware.NewTokenBucket(rl, rdb),
		AuthLimiter: middleware.NewTokenBucket(rl.WithCapacity(rl.AuthCapacity, rl.Prefix+":auth"), rdb),
		Cache:       middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := events.Close(shutdownCtx); err != nil {
		log.Printf("catalog events: %v", err)
	}
}
