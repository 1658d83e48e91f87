package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DBTX общий интерфейс для *pgxpool.Pool, pgx.Tx и pgxmock
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Деньги хранятся в агоротах (BIGINT), наружу отдаются как decimal в шекелях

func toMinor(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromMinor(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

func toMinorPtr(d *decimal.Decimal) *int64 {
	if d == nil {
		return nil
	}
	v := toMinor(*d)
	return &v
}

func fromMinorPtr(v *int64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := fromMinor(*v)
	return &d
}
