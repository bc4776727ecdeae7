package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/db"
	"grid-dispatch-service/internal/ports"
	"os"
	"strings"
)

// Initialize the database schema. Statements are portable between sqlite and postgres.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRestaurantsQuery := `
	CREATE TABLE IF NOT EXISTS restaurants (
		restaurant_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL
	);
	`

	createCellOverridesQuery := `
	CREATE TABLE IF NOT EXISTS cell_overrides (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		obstacle BOOLEAN NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (x, y)
	);
	`

	createCourierSeedsQuery := `
	CREATE TABLE IF NOT EXISTS couriers_seed (
		courier_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		roster_pos INTEGER NOT NULL
	);
	`

	createOrderEventsQuery := `
	CREATE TABLE IF NOT EXISTS order_events (
		event_id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		order_id BIGINT NOT NULL,
		courier_id TEXT NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		occurred_at TEXT NOT NULL
	);
	`

	createPathCacheQuery := `
	CREATE TABLE IF NOT EXISTS path_cache (
		cache_key TEXT PRIMARY KEY,
		path_json TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_order_events_order
	ON order_events(order_id, occurred_at);
	`

	statements := []string{
		createRestaurantsQuery,
		createCellOverridesQuery,
		createCourierSeedsQuery,
		createOrderEventsQuery,
		createPathCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// CitySeed is the JSON seed file layout.
type CitySeed struct {
	Restaurants []RestaurantSeed      `json:"restaurants"`
	Couriers    []ports.CourierSeed   `json:"couriers"`
	Cells       []domain.CellOverride `json:"cell_overrides"`
}

type RestaurantSeed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Populate the database with city data from a JSON file.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed city: read %q: %w", jsonPath, err)
	}

	var data CitySeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed city: parse json: %w", err)
	}

	for i, r := range data.Restaurants {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("seed city: restaurant at index %d: id cannot be empty", i+1)
		}
	}
	for i, c := range data.Couriers {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("seed city: courier at index %d: id cannot be empty", i+1)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed city: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range data.Restaurants {
		q := dialect.Rebind(`
		INSERT INTO restaurants (restaurant_id, name, x, y)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (restaurant_id) DO UPDATE
		SET name = EXCLUDED.name, x = EXCLUDED.x, y = EXCLUDED.y;
		`)
		if _, err := tx.ExecContext(ctx, q, strings.ToLower(strings.TrimSpace(r.ID)), r.Name, r.X, r.Y); err != nil {
			return fmt.Errorf("seed city: insert restaurant_id=%s: %w", r.ID, err)
		}
	}

	for i, c := range data.Couriers {
		q := dialect.Rebind(`
		INSERT INTO couriers_seed (courier_id, name, x, y, roster_pos)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (courier_id) DO UPDATE
		SET name = EXCLUDED.name, x = EXCLUDED.x, y = EXCLUDED.y, roster_pos = EXCLUDED.roster_pos;
		`)
		if _, err := tx.ExecContext(ctx, q, strings.TrimSpace(c.ID), c.Name, c.X, c.Y, i); err != nil {
			return fmt.Errorf("seed city: insert courier_id=%s: %w", c.ID, err)
		}
	}

	if err := upsertCells(ctx, tx, dialect, data.Cells); err != nil {
		return fmt.Errorf("seed city: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed city: commit tx: %w", err)
	}

	return nil
}

func upsertCells(ctx context.Context, tx *sql.Tx, dialect db.Dialect, cells []domain.CellOverride) error {
	if len(cells) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO cell_overrides (x, y, obstacle, weight)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (x, y) DO UPDATE
	SET obstacle = EXCLUDED.obstacle, weight = EXCLUDED.weight;
	`))
	if err != nil {
		return fmt.Errorf("upsert cells: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cells {
		if _, err := stmt.ExecContext(ctx, c.X, c.Y, c.Obstacle, c.Weight); err != nil {
			return fmt.Errorf("upsert cells: cell (%d,%d): %w", c.X, c.Y, err)
		}
	}
	return nil
}
