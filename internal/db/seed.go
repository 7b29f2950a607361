package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo accounts for local development: a funded sponsor, an
// empty creator and the platform authority. Existing rows are left alone.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	accounts := []struct {
		address string
		balance int64
	}{
		{"sponsor-demo", 1_000_000},
		{"creator-demo", 0},
		{"platform", 0},
	}
	for _, a := range accounts {
		_, err := db.Exec(ctx, `INSERT INTO accounts (address, balance, created_at, updated_at)
VALUES ($1, $2, now(), now()) ON CONFLICT DO NOTHING`, a.address, a.balance)
		if err != nil {
			return err
		}
	}
	return nil
}
