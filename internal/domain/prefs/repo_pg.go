package prefs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syncro/syncro/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type preferenceRepoPG struct{ pool *pgxpool.Pool }

func NewPreferenceRepoPG(pool *pgxpool.Pool) PreferenceRepository {
	return &preferenceRepoPG{pool: pool}
}

func (r *preferenceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *preferenceRepoPG) GetAll(ctx context.Context, accountID uuid.UUID) (map[string]json.RawMessage, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT pref_key, pref_value FROM ui_preferences WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var value json.RawMessage
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}

func (r *preferenceRepoPG) Set(ctx context.Context, accountID uuid.UUID, key string, value json.RawMessage) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ui_preferences (account_id, pref_key, pref_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, pref_key)
		DO UPDATE SET pref_value = EXCLUDED.pref_value, updated_at = NOW()`,
		accountID, key, value)
	return err
}
