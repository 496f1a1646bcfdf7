// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talent-workers/internal/audit"
	"talent-workers/internal/backend"
	"talent-workers/internal/common/camunda"
	"talent-workers/internal/common/config"
	"talent-workers/internal/common/database"
	"talent-workers/internal/common/logger"
	"talent-workers/internal/common/observability"
	"talent-workers/internal/status"
	"talent-workers/pkg/registry"

	cae "talent-workers/internal/workers/application/check-application-eligibility"
	tas "talent-workers/internal/workers/application/transition-application-status"
	uas "talent-workers/internal/workers/application/undo-application-status"
	cps "talent-workers/internal/workers/profile/compute-profile-score"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.Metrics.ServiceName)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Undo history ---
	var history status.HistoryFor
	var redisClient *database.RedisClient
	switch cfg.Engine.HistoryStore {
	case config.HistoryStoreRedis:
		redisClient = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		history = status.RedisHistoryFor(redisClient.Client, cfg.HistoryTTL())
		zapLog.Info("Redis history store ready", zap.Duration("ttl", cfg.HistoryTTL()))
	default:
		history = status.MemoryHistoryFor()
		zapLog.Warn("using in-process history store; undo is not shared across replicas")
	}

	// --- Audit trail ---
	var recorder *audit.Recorder
	var pg *database.PostgresClient
	if cfg.Engine.AuditEnabled {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		recorder = audit.NewRecorder(pg.DB)
		if err := recorder.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("audit schema setup failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL audit trail ready")
	}

	backendClient := backend.NewClient(cfg.Backend.BaseURL, config.GetDuration(cfg.Backend.Timeout), cfg.Backend.Token)

	// --- Workers ---
	var workers []*camunda.Worker
	start := func(taskType string, handler worker.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, zeebe.StartWorker(camunda.WorkerOptions{
			TaskType:      taskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, handler, obs, log))
	}

	scoreHandler, err := cps.NewHandler(cps.HandlerOptions{
		AppConfig: cfg,
		Profiles:  backendClient,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create compute-profile-score handler", zap.Error(err))
	}
	start(cps.TaskType, scoreHandler.Handle)

	eligibilityHandler, err := cae.NewHandler(cae.HandlerOptions{
		AppConfig: cfg,
		Profiles:  backendClient,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create check-application-eligibility handler", zap.Error(err))
	}
	start(cae.TaskType, eligibilityHandler.Handle)

	transitionOpts := tas.HandlerOptions{
		AppConfig:    cfg,
		Applications: backendClient,
		History:      history,
		Logger:       log,
	}
	undoOpts := uas.HandlerOptions{
		AppConfig:    cfg,
		Applications: backendClient,
		History:      history,
		Logger:       log,
	}
	// a typed nil would defeat the handlers' nil check
	if recorder != nil {
		transitionOpts.Audit = recorder
		undoOpts.Audit = recorder
	}

	transitionHandler, err := tas.NewHandler(transitionOpts)
	if err != nil {
		zapLog.Fatal("failed to create transition-application-status handler", zap.Error(err))
	}
	start(tas.TaskType, transitionHandler.Handle)

	undoHandler, err := uas.NewHandler(undoOpts)
	if err != nil {
		zapLog.Fatal("failed to create undo-application-status handler", zap.Error(err))
	}
	start(uas.TaskType, undoHandler.Handle)

	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	activities, err := registry.New(cfg.App.Version,
		cps.Activity(), cae.Activity(), tas.Activity(), uas.Activity())
	if err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok"}
		code := http.StatusOK
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			checks["zeebe"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(checkCtx); err != nil {
				checks["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if pg != nil {
			checks["postgres"] = "ok"
			if err := pg.Ping(checkCtx); err != nil {
				checks["postgres"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}

		state := "ready"
		if code != http.StatusOK {
			state = "not ready"
		}
		writeStatus(w, code, state, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/activities", activities.Handler())

	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, state string, checks map[string]string) {
	body := map[string]interface{}{
		"status": state,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
