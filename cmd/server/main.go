package main // Entry point package

import (
	"context"
	"errors"
	stdlog "log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/auth"
	"github.com/iliyamo/cinema-pos/internal/cart"
	"github.com/iliyamo/cinema-pos/internal/config"
	"github.com/iliyamo/cinema-pos/internal/handler"
	"github.com/iliyamo/cinema-pos/internal/ledger"
	"github.com/iliyamo/cinema-pos/internal/logger"
	"github.com/iliyamo/cinema-pos/internal/middleware"
	"github.com/iliyamo/cinema-pos/internal/queue"
	"github.com/iliyamo/cinema-pos/internal/repository"
	"github.com/iliyamo/cinema-pos/internal/router"
	queue_publisher "github.com/iliyamo/cinema-pos/internal/service"
	"github.com/iliyamo/cinema-pos/internal/seatmap"
	"github.com/iliyamo/cinema-pos/internal/store"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	st, storeRedis, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ns := cfg.StoreNamespace
	if err := repository.Bootstrap(ctx, st, ns, rand.New(rand.NewSource(seed)), time.Now()); err != nil {
		return err
	}

	tax, err := cart.NewTaxPolicy(cfg.TaxRate)
	if err != nil {
		return err
	}

	catalog := repository.NewCatalogRepo(st, ns)
	sales := ledger.New(repository.NewSaleRepo(st, ns), cfg.SaleIDPrefix, log.Named("ledger"))
	pub := queue_publisher.New(cfg.AMQPURL, log.Named("publisher"))
	session := cart.NewSession(repository.NewCartRepo(st, ns), sales, tax, pub, log.Named("cart"))
	register := cart.NewRegister(catalog, sales, tax, pub, log.Named("pos"))
	engine := seatmap.NewEngine(catalog, log.Named("seatmap"))
	sessions := auth.NewSessions(repository.NewUserRepo(st, ns), cfg.JWTSecret, cfg.SessionTTL, log.Named("auth"))

	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()
	cacheRedis := storeRedis
	if (cacheCfg.Enabled || rateCfg.Enabled) && cacheRedis == nil {
		// the response cache and rate limiter are optional; without Redis they stay off
		if rdb, err := config.NewRedisClient(ctx); err != nil {
			log.Info("redis unavailable, cache and rate limit disabled", zap.Error(err))
		} else {
			cacheRedis = rdb
			defer func() { _ = rdb.Close() }()
		}
	}

	if pub.Enabled() && cfg.SalesConsumer {
		consumer := queue.SalesConsumer{URL: cfg.AMQPURL, Dir: cfg.SalesLogDir, Log: log.Named("sales-consumer")}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("sales consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(log.Named("http")))

	limit := middleware.NewRateLimiter(rateCfg, cacheRedis, log.Named("ratelimit"))
	cache := middleware.NewRedisCache(cacheCfg, cacheRedis, log.Named("cache"))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(sessions, log), sessions, limit)
	seatHandler := handler.NewSeatMapHandler(engine, session, log)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog, log), seatHandler, cache)
	router.RegisterCustomer(e, seatHandler, handler.NewCartHandler(session, catalog, sales, tax, log), sessions, limit)
	router.RegisterSeller(e, handler.NewPOSHandler(register, log), sessions, limit)
	router.RegisterAdmin(e, handler.NewAdminHandler(sales, catalog, invalidator(cacheRedis, cacheCfg.Prefix), log), sessions)

	addr := ":" + cfg.Port
	log.Info("listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("store", cfg.StoreDriver),
		zap.Int64("seed", seed),
		zap.Bool("cache", cacheCfg.Enabled && cacheRedis != nil),
		zap.Bool("ratelimit", rateCfg.Enabled && cacheRedis != nil),
		zap.Bool("events", pub.Enabled()),
	)

	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func invalidator(rdb *redis.Client, prefix string) func(context.Context) error {
	if rdb == nil {
		return nil
	}
	return func(ctx context.Context) error { return middleware.InvalidateCache(ctx, rdb, prefix) }
}
