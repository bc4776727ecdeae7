package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/adapters/cache"
	"grid-dispatch-service/internal/adapters/events"
	"grid-dispatch-service/internal/adapters/repositories"
	"grid-dispatch-service/internal/adapters/terrain"
	"grid-dispatch-service/internal/api"
	"grid-dispatch-service/internal/config"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/db"
	"grid-dispatch-service/internal/ports"
	"grid-dispatch-service/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL, path cache, brokers) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Load()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	conn, err := db.Open(dialect, cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath); err != nil {
		return err
	}

	terrainRepo := repositories.NewSQLTerrainRepository(conn, dialect)
	city, err := terrain.LoadCity(ctx, terrainRepo)
	if err != nil {
		return err
	}

	store := repositories.NewMemoryStore()
	if err := seedCouriers(ctx, store, terrainRepo, city.Grid()); err != nil {
		return err
	}

	pathCache, closeCache, err := openPathCache(ctx, cfg, conn, dialect)
	if err != nil {
		return err
	}
	defer closeCache()

	eventLog := repositories.NewSQLEventLog(conn, dialect)
	publisher, err := openPublishers(ctx, cfg, eventLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("close publishers: %v", err)
		}
	}()

	fleet := services.NewFleet(store, city, services.NewPathFinder(pathCache), publisher, services.FleetConfig{
		Heuristic:       services.ParseHeuristic(cfg.Heuristic),
		Strategy:        cfg.Strategy,
		PenaltyPerOrder: cfg.LoadPenalty,
		ProbeWorkers:    cfg.ProbeWorkers,
	})
	go fleet.Run(ctx, cfg.TickInterval)

	router := api.NewRouter(api.Deps{Fleet: fleet, City: city, Store: store, EventLog: eventLog})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening addr=:%s db=%s path_cache=%s brokers=%v tick=%s",
			cfg.Port, dialect, cfg.PathCache, cfg.EventBrokers, cfg.TickInterval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// seedCouriers puts the stored roster (or the built-in one) on shift.
// Couriers seeded off the grid are skipped.
func seedCouriers(ctx context.Context, store *repositories.MemoryStore, repo ports.TerrainRepository, grid *domain.Grid) error {
	seeds, err := repo.ListCourierSeeds(ctx)
	if err != nil {
		return fmt.Errorf("seed couriers: %w", err)
	}
	if len(seeds) == 0 {
		seeds = terrain.DefaultCouriers()
	}

	for _, s := range seeds {
		pos := domain.Point{X: s.X, Y: s.Y}
		if !grid.Contains(pos) {
			log.Printf("seed couriers: skipping courier=%s at %s: off grid", s.ID, pos)
			continue
		}
		if err := store.SaveCourier(ctx, domain.NewCourier(s.ID, s.Name, pos)); err != nil {
			return fmt.Errorf("seed couriers: %w", err)
		}
	}
	return nil
}

func openPathCache(ctx context.Context, cfg config.Config, conn *sql.DB, dialect db.Dialect) (ports.PathCache, func(), error) {
	noop := func() {}

	switch cfg.PathCache {
	case "", "memory":
		return cache.NewMemoryPathCache(cfg.PathCacheSize), noop, nil
	case "redis":
		rdb, err := cache.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return cache.NewRedisPathCache(rdb, cfg.PathCacheTTL), func() { _ = rdb.Close() }, nil
	case "sql":
		return cache.NewSQLPathCache(conn, dialect), noop, nil
	case "none", "off":
		return nil, noop, nil
	default:
		return nil, noop, fmt.Errorf("open path cache: unsupported PATH_CACHE %q", cfg.PathCache)
	}
}

// openPublishers always records to the SQL event log and fans out to the
// configured brokers.
func openPublishers(ctx context.Context, cfg config.Config, eventLog ports.EventPublisher) (ports.EventPublisher, error) {
	multi := events.Multi{eventLog}

	for _, b := range cfg.EventBrokers {
		switch b {
		case "log":
			multi = append(multi, events.LogPublisher{})
		case "amqp", "rabbitmq":
			p, err := events.DialAMQP(ctx, cfg.AMQPURL)
			if err != nil {
				_ = multi.Close()
				return nil, err
			}
			multi = append(multi, p)
		case "nats":
			p, err := events.DialNATS(ctx, cfg.NATSURL)
			if err != nil {
				_ = multi.Close()
				return nil, err
			}
			multi = append(multi, p)
		default:
			_ = multi.Close()
			return nil, fmt.Errorf("open publishers: unsupported EVENT_BROKER %q", b)
		}
	}
	return multi, nil
}
