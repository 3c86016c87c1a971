package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/geraldhq/bnpl-gateway/internal/config"
	"github.com/geraldhq/bnpl-gateway/internal/handler"
	"github.com/geraldhq/bnpl-gateway/internal/integrations/bank"
	"github.com/geraldhq/bnpl-gateway/internal/integrations/ledger"
	"github.com/geraldhq/bnpl-gateway/internal/metrics"
	"github.com/geraldhq/bnpl-gateway/internal/middleware"
	"github.com/geraldhq/bnpl-gateway/internal/repository"
	"github.com/geraldhq/bnpl-gateway/internal/scheduler"
	"github.com/geraldhq/bnpl-gateway/internal/service"
	"github.com/geraldhq/bnpl-gateway/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	webhookWorkers   = 4
	webhookQueueSize = 256
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)
	repo := repository.NewRepository(db)
	bankClient := bank.NewClient(cfg, logger)

	// Webhook delivery: retry client behind a background dispatcher so the
	// request path never waits on the ledger.
	deliveryClient := ledger.NewClient(ledger.NewHTTPSink(cfg), nil, recorder,
		cfg.WebhookMaxRetries, cfg.WebhookBackoffBase, logger)
	dispatcher := ledger.NewDispatcher(deliveryClient, webhookWorkers, webhookQueueSize, logger)
	defer dispatcher.Stop()

	svc := service.NewService(bankClient, repo, dispatcher, recorder, logger)
	h := handler.NewHandler(svc, logger)

	// Daily overdue sweep
	sender := email.NewSender(cfg, logger)
	sweep := scheduler.NewScheduler(repo, sender, cfg.OpsEmail, logger)
	if err := sweep.Start(cfg.SweepSchedule); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sweep.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(recorder))
	r.HandleFunc("/v1/decision", h.CreateDecision).Methods("POST")
	r.HandleFunc("/v1/plan/{plan_id}", h.GetPlan).Methods("GET")
	r.HandleFunc("/v1/decision/history", h.GetHistory).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
