// Command vitalsignd is the VitalSign platform service. It serves the
// customer health API, persists scores and playbooks to Postgres, and
// archives raw signal submissions to blob storage.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitalsign/vitalsign/internal/amplification"
	"github.com/vitalsign/vitalsign/internal/api"
	"github.com/vitalsign/vitalsign/internal/archive"
	"github.com/vitalsign/vitalsign/internal/engine"
	"github.com/vitalsign/vitalsign/internal/notify"
	"github.com/vitalsign/vitalsign/internal/platform"
	"github.com/vitalsign/vitalsign/internal/store"
	"github.com/vitalsign/vitalsign/internal/webhook"
	"github.com/vitalsign/vitalsign/pkg/config"
)

func main() {
	configPath := os.Getenv("VITALSIGN_CONFIG")
	if configPath == "" {
		wd, err := os.Getwd()
		if err == nil {
			configPath = config.FindConfigFile(wd)
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL)
	}

	eng := engine.New(nil, notifier)
	eng.SetThresholds(engine.Thresholds{
		LowEngagement:       cfg.Scoring.LowEngagement,
		LowValueRealization: cfg.Scoring.LowValueRealization,
		SignificantDrop:     cfg.Scoring.SignificantDrop,
	})
	amp := amplification.New(notifier)

	var svc *store.Service
	if cfg.Database.URL != "" {
		db, err := platform.OpenDB(cfg.Database)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		if err := platform.AutoMigrate(db); err != nil {
			log.Fatalf("migrate database: %v", err)
		}

		svc = store.NewService(db)
		if err := rehydrate(context.Background(), svc, eng); err != nil {
			log.Fatalf("load state: %v", err)
		}
	} else {
		log.Println("no database configured, running in-memory only")
	}

	archiver, err := archive.New(context.Background(), cfg.Archive)
	if err != nil {
		log.Fatalf("init archive: %v", err)
	}

	handler := api.NewHandler(eng, amp, svc, archiver)
	apiMux := http.NewServeMux()
	handler.RegisterRoutes(apiMux)

	// The telemetry webhook authenticates with its own HMAC signature,
	// so it mounts outside the API key middleware.
	root := http.NewServeMux()
	root.Handle("/", api.APIKeyAuth(cfg.Server.APIKey)(apiMux))
	if cfg.Telemetry.WebhookSecret != "" {
		root.Handle("POST /v1/webhooks/telemetry",
			webhook.NewHandler([]byte(cfg.Telemetry.WebhookSecret), eng, amp))
	} else {
		log.Println("no telemetry webhook secret configured, endpoint disabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.CORS(root),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting vitalsignd on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// rehydrate loads customers and playbooks from the database into the
// engine so the in-memory registries survive restarts.
func rehydrate(ctx context.Context, svc *store.Service, eng *engine.Engine) error {
	customers, err := svc.ListCustomers(ctx)
	if err != nil {
		return err
	}
	for _, c := range customers {
		full, err := svc.GetCustomer(ctx, c.CustomerID)
		if err != nil {
			return err
		}
		eng.AddCustomer(full)
	}

	playbooks, err := svc.ListAllPlaybooks(ctx)
	if err != nil {
		return err
	}
	for _, pb := range playbooks {
		eng.RestorePlaybook(pb)
	}

	log.Printf("loaded %d customers and %d playbooks", len(customers), len(playbooks))
	return nil
}
