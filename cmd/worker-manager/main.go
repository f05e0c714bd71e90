// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"phoneshop-bot/internal/bot"
	"phoneshop-bot/internal/bot/formatter"
	"phoneshop-bot/internal/bot/matcher"
	"phoneshop-bot/internal/common/config"
	"phoneshop-bot/internal/common/database"
	"phoneshop-bot/internal/common/logger"
	"phoneshop-bot/internal/common/observability"
	"phoneshop-bot/internal/store"

	br "phoneshop-bot/internal/workers/bot/build-reply"
	pmi "phoneshop-bot/internal/workers/bot/parse-message-intent"
	qi "phoneshop-bot/internal/workers/bot/query-inventory"
	ns "phoneshop-bot/internal/workers/crm/notify-sales"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
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
	zapLog.Info("PostgreSQL connected successfully")

	// --- Build the inventory store ---
	inventory := store.NewPostgresInventory(pg.DB)

	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		inventory.WithTextSearcher(store.NewElasticSearcher(esClient.Client, cfg.Database.Elasticsearch.Index))
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Shared pipeline collaborators ---
	pipeline := bot.NewPipeline(log)
	m := matcher.New(inventory, matcher.Options{
		SuggestionLimit: cfg.Bot.SuggestionLimit,
		RelaxFactor:     cfg.Bot.RelaxFactor,
	}, log)
	f := formatter.New(cfg.WhatsApp.ShopNumber, cfg.WhatsApp.ShopName, cfg.WhatsApp.ContactHours)

	// --- Register Workers ---
	if cfg.Workers[pmi.TaskType].Enabled {
		handler := pmi.NewHandler(
			&pmi.Config{
				Timeout: time.Duration(cfg.Workers[pmi.TaskType].Timeout) * time.Millisecond,
			},
			pipeline, log,
		)
		startWorker(zeebeClient, pmi.TaskType, cfg.Workers[pmi.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[qi.TaskType].Enabled {
		handler := qi.NewHandler(
			&qi.Config{
				Timeout: time.Duration(cfg.Workers[qi.TaskType].Timeout) * time.Millisecond,
			},
			m, log,
		)
		startWorker(zeebeClient, qi.TaskType, cfg.Workers[qi.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[br.TaskType].Enabled {
		handler := br.NewHandler(
			&br.Config{
				Timeout: time.Duration(cfg.Workers[br.TaskType].Timeout) * time.Millisecond,
			},
			f, log,
		)
		startWorker(zeebeClient, br.TaskType, cfg.Workers[br.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ns.TaskType].Enabled {
		handler, err := ns.NewHandler(
			&ns.Config{
				EmailEnabled: cfg.Notifications.AWS.SES.Enabled,
				SMSEnabled:   cfg.Notifications.AWS.SNS.Enabled,
				FromEmail:    cfg.Notifications.AWS.SES.FromEmail,
				SalesEmail:   cfg.Notifications.SalesEmail,
				SalesPhone:   cfg.Notifications.SalesPhone,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      time.Duration(cfg.Workers[ns.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create notify-sales handler", zap.Error(err))
		}
		startWorker(zeebeClient, ns.TaskType, cfg.Workers[ns.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
