package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"ration-be/internal/auth"
	"ration-be/internal/cart"
	"ration-be/internal/config"
	"ration-be/internal/customer"
	"ration-be/internal/db"
	"ration-be/internal/handler"
	"ration-be/internal/inventory"
	"ration-be/internal/issue"
	"ration-be/internal/logger"
	"ration-be/internal/metrics"
	"ration-be/internal/middleware"
	"ration-be/internal/order"
	"ration-be/internal/quota"
	"ration-be/internal/rationcard"
	"ration-be/internal/user"

	"go.uber.org/zap"
)

// Swapped out in tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = func(addr string, h http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		}
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router, err := newServer(cfg, database)
	if err != nil {
		return err
	}

	logger.L().Info("server starting",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.String("quota_timezone", cfg.QuotaTimezone),
	)
	return startServerFunc(":"+cfg.AppPort, router)
}

// newServer wires repositories, services and handlers onto database.
func newServer(cfg *config.Config, database *sql.DB) (http.Handler, error) {
	cards := rationcard.NewRegistry(cfg.CardTypes)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	recorder := metrics.NewRecorder()

	period, err := quota.NewPeriod(cfg.QuotaTimezone)
	if err != nil {
		return nil, err
	}

	inventoryRepo := inventory.NewRepository(database)
	quotaRepo := quota.NewRepository(database)

	orderSvc := order.NewService(
		order.NewRepository(database),
		quotaRepo,
		period,
		recorder,
		order.Options{RestockPendingCancel: cfg.RestockPendingCancel},
	)

	cartRepo, err := cart.NewRepository(cfg.CartCacheSize)
	if err != nil {
		return nil, fmt.Errorf("cart cache: %w", err)
	}

	h := &handler.Handler{
		Customers:    customer.NewService(customer.NewRepository(database), cards),
		Inventory:    inventory.NewService(inventoryRepo, cards),
		Quotas:       quota.NewService(quotaRepo, cards),
		Orders:       orderSvc,
		Carts:        cart.NewService(cartRepo, inventoryRepo, orderSvc),
		Issues:       issue.NewService(issue.NewRepository(database)),
		Admins:       user.NewService(user.NewRepository(database), issuer),
		Issuer:       issuer,
		Cards:        cards,
		SecureCookie: cfg.AppEnv == "production",
		TokenTTL:     cfg.TokenTTL,
	}

	return setupRouter(cfg, h.Routes(), issuer, recorder, database), nil
}

// setupRouter mounts the API behind the middleware chain. Outermost
// first: request id, access log, CORS, session, rate limit.
func setupRouter(
	cfg *config.Config,
	api http.Handler,
	issuer *auth.Issuer,
	recorder *metrics.Recorder,
	database *sql.DB,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if database != nil {
			if err := database.PingContext(r.Context()); err != nil {
				logger.FromCtx(r.Context()).Warn("health check failed", zap.Error(err))
				http.Error(w, "DB UNAVAILABLE", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", recorder.Handler())

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	mux.Handle("/api/", middleware.AuthMiddleware(issuer)(limiter.Middleware(api)))

	var h http.Handler = mux
	h = middleware.CORS(cfg.CORSOrigin)(h)
	h = middleware.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}
