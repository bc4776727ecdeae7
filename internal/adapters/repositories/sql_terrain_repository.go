package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/db"
	"grid-dispatch-service/internal/platform/obs"
	"grid-dispatch-service/internal/ports"
)

// SQL-backed implementation of the TerrainRepository port.
type SQLTerrainRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLTerrainRepository(conn *sql.DB, dialect db.Dialect) *SQLTerrainRepository {
	return &SQLTerrainRepository{DB: conn, Dialect: dialect}
}

// Return all stored restaurants ordered by id.
func (s *SQLTerrainRepository) ListRestaurants(ctx context.Context) (_ []domain.Restaurant, err error) {
	defer obs.Time(ctx, "terrain.repo.ListRestaurants")(&err)

	if s.DB == nil {
		return nil, errors.New("sql terrain repository: DB is nil")
	}

	query := `
	SELECT
		restaurant_id,
		name,
		x,
		y
	FROM restaurants
	ORDER BY restaurant_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: query restaurants table: %w", err)
	}
	defer rows.Close()

	restaurants := make([]domain.Restaurant, 0, 8)
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Location.X, &r.Location.Y); err != nil {
			return nil, fmt.Errorf("list restaurants: scan row: %w", err)
		}
		restaurants = append(restaurants, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: row iteration: %w", err)
	}

	return restaurants, nil
}

func (s *SQLTerrainRepository) ListCellOverrides(ctx context.Context) ([]domain.CellOverride, error) {
	if s.DB == nil {
		return nil, errors.New("sql terrain repository: DB is nil")
	}

	query := `
	SELECT x, y, obstacle, weight
	FROM cell_overrides
	ORDER BY y, x;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cell overrides: query cell_overrides table: %w", err)
	}
	defer rows.Close()

	var cells []domain.CellOverride
	for rows.Next() {
		var c domain.CellOverride
		if err := rows.Scan(&c.X, &c.Y, &c.Obstacle, &c.Weight); err != nil {
			return nil, fmt.Errorf("list cell overrides: scan row: %w", err)
		}
		cells = append(cells, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cell overrides: row iteration: %w", err)
	}

	return cells, nil
}

func (s *SQLTerrainRepository) SaveCellOverrides(ctx context.Context, cells []domain.CellOverride) (err error) {
	defer obs.Time(ctx, "terrain.repo.SaveCellOverrides")(&err)

	if s.DB == nil {
		return errors.New("sql terrain repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save cell overrides: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertCells(ctx, tx, s.Dialect, cells); err != nil {
		return fmt.Errorf("save cell overrides: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save cell overrides: commit tx: %w", err)
	}
	return nil
}

// Return seeded couriers in roster order.
func (s *SQLTerrainRepository) ListCourierSeeds(ctx context.Context) ([]ports.CourierSeed, error) {
	if s.DB == nil {
		return nil, errors.New("sql terrain repository: DB is nil")
	}

	query := `
	SELECT courier_id, name, x, y
	FROM couriers_seed
	ORDER BY roster_pos, courier_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courier seeds: query couriers_seed table: %w", err)
	}
	defer rows.Close()

	var seeds []ports.CourierSeed
	for rows.Next() {
		var c ports.CourierSeed
		if err := rows.Scan(&c.ID, &c.Name, &c.X, &c.Y); err != nil {
			return nil, fmt.Errorf("list courier seeds: scan row: %w", err)
		}
		seeds = append(seeds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courier seeds: row iteration: %w", err)
	}

	return seeds, nil
}
