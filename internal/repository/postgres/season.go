package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swimschool/billing/internal/domain"
)

// SeasonRepository хранит сезоны и бассейны
type SeasonRepository struct {
	db DBTX
}

// NewSeasonRepository создает новый SeasonRepository
func NewSeasonRepository(db DBTX) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// CreateSeason создает сезон
func (r *SeasonRepository) CreateSeason(ctx context.Context, season *domain.Season) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO seasons (name, start_date, end_date)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		season.Name, season.StartDate, season.EndDate,
	).Scan(&season.ID, &season.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to create season %q: %w", season.Name, err)
	}

	return nil
}

// GetSeason получает сезон по ID
func (r *SeasonRepository) GetSeason(ctx context.Context, id int64) (*domain.Season, error) {
	season := &domain.Season{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, start_date, end_date, created_at
		 FROM seasons
		 WHERE id = $1`,
		id,
	).Scan(&season.ID, &season.Name, &season.StartDate, &season.EndDate, &season.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, fmt.Errorf("repository: failed to get season %d: %w", id, err)
	}

	return season, nil
}

// ListSeasons возвращает все сезоны, новые первыми
func (r *SeasonRepository) ListSeasons(ctx context.Context) ([]*domain.Season, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, start_date, end_date, created_at
		 FROM seasons
		 ORDER BY start_date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []*domain.Season
	for rows.Next() {
		season := &domain.Season{}
		if err := rows.Scan(&season.ID, &season.Name, &season.StartDate, &season.EndDate, &season.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan season: %w", err)
		}
		seasons = append(seasons, season)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating seasons: %w", err)
	}

	return seasons, nil
}

// CreatePool создает бассейн в сезоне
func (r *SeasonRepository) CreatePool(ctx context.Context, pool *domain.Pool) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO pools (season_id, name)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		pool.SeasonID, pool.Name,
	).Scan(&pool.ID, &pool.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSeasonNotFound
		}
		return fmt.Errorf("repository: failed to create pool %q: %w", pool.Name, err)
	}

	return nil
}

// ListPools возвращает бассейны сезона
func (r *SeasonRepository) ListPools(ctx context.Context, seasonID int64) ([]*domain.Pool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, season_id, name, created_at
		 FROM pools
		 WHERE season_id = $1
		 ORDER BY id`,
		seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list pools for season %d: %w", seasonID, err)
	}
	defer rows.Close()

	var pools []*domain.Pool
	for rows.Next() {
		pool := &domain.Pool{}
		if err := rows.Scan(&pool.ID, &pool.SeasonID, &pool.Name, &pool.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan pool: %w", err)
		}
		pools = append(pools, pool)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating pools: %w", err)
	}

	return pools, nil
}
