package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"checkout-pricing-api/cache"
	"checkout-pricing-api/config"
	"checkout-pricing-api/database"
	"checkout-pricing-api/handlers"
	"checkout-pricing-api/logger"
	"checkout-pricing-api/middleware"
	"checkout-pricing-api/queue"
	"checkout-pricing-api/services/accountplans"
	"checkout-pricing-api/services/auth"
	"checkout-pricing-api/services/billing"
	"checkout-pricing-api/services/checkout"
	"checkout-pricing-api/services/email"
	"checkout-pricing-api/services/upstream"
	"checkout-pricing-api/worker"
)

const jobsQueueName = "checkout_jobs"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg.Stage)
	defer logger.Sync()
	log := logger.Log

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(schemaCtx); err != nil {
		schemaCancel()
		log.Fatal("failed to create schema", zap.Error(err))
	}
	schemaCancel()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable at startup", zap.Error(err))
	}
	pingCancel()

	jobQueue := queue.NewQueue(rdb, jobsQueueName)
	planCache := cache.NewPlanCache(rdb, cfg.Redis.PlanCacheTTL)

	plansAPI := accountplans.NewClient(upstream.NewClient("account-plans", cfg.Upstream.AccountPlansURL, cfg.Upstream.Timeout))
	billingAPI := billing.NewClient(upstream.NewClient("billing", cfg.Upstream.BillingURL, cfg.Upstream.Timeout))

	summaries := checkout.NewService(plansAPI, plansAPI, plansAPI, plansAPI, billingAPI, checkout.WithPlanCache(planCache))
	purchaser := checkout.NewPurchaser(billingAPI, db, db, jobQueue)

	mailer := email.NewSMTPService(cfg.SMTP)
	confirmationWorker := worker.NewWorker(jobQueue, mailer)
	confirmationWorker.Start(cfg.Redis.WorkerConcurrency)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer)
	rateLimiter := middleware.NewRateLimiter(rdb)
	store := handlers.NewSessionStore(handlers.SessionConfig{
		Secret: cfg.Session.Secret,
		Domain: cfg.Session.Domain,
		MaxAge: cfg.Session.MaxAge,
	})

	router := mux.NewRouter()
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.SecurityHeadersMiddleware)
	router.Use(middleware.OptionalAuth(jwtService))
	router.Use(rateLimiter.RateLimitMiddleware())

	handlers.Routes{
		Checkout: handlers.NewCheckoutHandler(summaries, store, cfg.ControlPanelURL),
		Purchase: handlers.NewPurchaseHandler(purchaser, store),
		Health: handlers.NewHealthHandler(db.Ping, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
		RequireAuth: []handlers.Middleware{
			middleware.AuthMiddleware(jwtService),
			middleware.RequireActiveAccount(),
		},
	}.Register(router)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("stage", cfg.Stage))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	confirmationWorker.Stop()

	if err := db.Close(); err != nil {
		log.Error("error closing database", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		log.Error("error closing redis", zap.Error(err))
	}

	log.Info("server exited properly")
}
