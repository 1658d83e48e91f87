package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/swimschool/billing/internal/domain"
)

// ProductRepository хранит курсы
type ProductRepository struct {
	db DBTX
}

// NewProductRepository создает новый ProductRepository
func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, season_id, pool_id, name, start_date, end_date, days_of_week,
	meetings_count, price, discount_amount, max_participants, created_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	product := &domain.Product{}
	var price int64
	var discount *int64
	err := row.Scan(
		&product.ID, &product.SeasonID, &product.PoolID, &product.Name,
		&product.StartDate, &product.EndDate, &product.DaysOfWeek,
		&product.MeetingsCount, &price, &discount, &product.MaxParticipants, &product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.Price = fromMinor(price)
	product.DiscountAmount = fromMinorPtr(discount)
	if product.DaysOfWeek == nil {
		product.DaysOfWeek = []string{}
	}
	return product, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, what, sql string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list %s: %w", what, err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating %s: %w", what, err)
	}

	return products, nil
}

// CreateProduct создает курс
func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (season_id, pool_id, name, start_date, end_date, days_of_week,
			meetings_count, price, discount_amount, max_participants)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		product.SeasonID, product.PoolID, product.Name, product.StartDate, product.EndDate, product.DaysOfWeek,
		product.MeetingsCount, toMinor(product.Price), toMinorPtr(product.DiscountAmount), product.MaxParticipants,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSeasonNotFound
		}
		return fmt.Errorf("repository: failed to create product %q: %w", product.Name, err)
	}

	return nil
}

// GetProduct получает курс по ID
func (r *ProductRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to get product %d: %w", id, err)
	}

	return product, nil
}

// ListProductsBySeason возвращает курсы сезона
func (r *ProductRepository) ListProductsBySeason(ctx context.Context, seasonID int64) ([]*domain.Product, error) {
	return r.queryProducts(ctx, "season products",
		`SELECT `+productColumns+`
		 FROM products
		 WHERE season_id = $1
		 ORDER BY start_date, id`,
		seasonID,
	)
}

// ListProductsActiveOn возвращает курсы, идущие в указанный день.
// Курсы без end_date включаются всегда, точная проверка дня выполняется по расписанию.
func (r *ProductRepository) ListProductsActiveOn(ctx context.Context, day time.Time) ([]*domain.Product, error) {
	return r.queryProducts(ctx, "active products",
		`SELECT `+productColumns+`
		 FROM products
		 WHERE start_date <= $1 AND (end_date IS NULL OR end_date >= $1)
		 ORDER BY start_date, id`,
		day,
	)
}

// ListProductsMissingEndDate возвращает курсы без вычисленной даты окончания
func (r *ProductRepository) ListProductsMissingEndDate(ctx context.Context, limit int) ([]*domain.Product, error) {
	return r.queryProducts(ctx, "products without end date",
		`SELECT `+productColumns+`
		 FROM products
		 WHERE end_date IS NULL AND meetings_count > 0
		 ORDER BY id
		 LIMIT $1`,
		limit,
	)
}

// SetProductEndDate сохраняет вычисленную дату окончания курса
func (r *ProductRepository) SetProductEndDate(ctx context.Context, id int64, endDate time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE products
		 SET end_date = $1
		 WHERE id = $2`,
		endDate, id,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to set end date for product %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}
