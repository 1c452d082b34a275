package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/api"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/config"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/dashboard"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/join"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/persistence/memory"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/persistence/postgres"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/records"
	httptransport "github.com/Steven-Carter-Data/gran-fondo-bc/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cal, err := cfg.Competition.Calendar()
	if err != nil {
		log.Fatalf("invalid competition calendar: %v", err)
	}
	loc, err := cfg.Competition.Location()
	if err != nil {
		log.Fatalf("invalid competition timezone: %v", err)
	}

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	reader := records.NewReader(store, join.Options{Rules: cfg.Competition.Rules(), Location: loc},
		records.WithTTL(cfg.CacheTTL),
		records.WithLogger(log.New(os.Stdout, "[records] ", log.LstdFlags|log.Lshortfile)),
	)
	service := dashboard.NewService(reader, cal, dashboard.WithLocation(loc))

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	api.NewHandler(service).RegisterRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	handler := handlers.RecoveryHandler()(handlers.CombinedLoggingHandler(os.Stdout, c.Handler(router)))

	server := httptransport.NewServer(httptransport.DefaultServerConfig(cfg.HTTPAddress), handler)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("%s dashboard api listening on %s", cfg.Competition.Name, cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (domain.Store, func()) {
	if cfg.StoreDriver == config.DriverMemory {
		if cfg.FixturePath == "" {
			log.Printf("memory store without FIXTURE_PATH starts empty")
			return memory.NewStore(), func() {}
		}
		store, err := memory.LoadFixtureFile(cfg.FixturePath)
		if err != nil {
			log.Fatalf("failed to load fixture: %v", err)
		}
		return store, func() {}
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	return postgres.NewRepository(pool), pool.Close
}
