package catalog

import (
	"context"

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

// entryRepoPG serves one catalog table. The table and the appointments
// foreign-key column are fixed per constructor, never caller input.
type entryRepoPG struct {
	pool     *pgxpool.Pool
	table    string
	fkColumn string
}

func NewProfessionalRepoPG(pool *pgxpool.Pool) EntryRepository {
	return &entryRepoPG{pool: pool, table: "professionals", fkColumn: "professional_id"}
}

func NewServiceRepoPG(pool *pgxpool.Pool) EntryRepository {
	return &entryRepoPG{pool: pool, table: "services", fkColumn: "service_id"}
}

func NewRoomRepoPG(pool *pgxpool.Pool) EntryRepository {
	return &entryRepoPG{pool: pool, table: "rooms", fkColumn: "room_id"}
}

func (r *entryRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *entryRepoPG) scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.DisplayName, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *entryRepoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx,
		`INSERT INTO `+r.table+` (id, display_name) VALUES ($1,$2)
		 RETURNING created_at, updated_at`,
		e.ID, e.DisplayName).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *entryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return r.scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT id, display_name, created_at, updated_at FROM `+r.table+` WHERE id = $1`, id))
}

func (r *entryRepoPG) GetByName(ctx context.Context, name string) (*Entry, error) {
	return r.scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT id, display_name, created_at, updated_at FROM `+r.table+
			` WHERE LOWER(display_name) = LOWER($1)`, name))
}

func (r *entryRepoPG) Update(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE `+r.table+` SET display_name=$2, updated_at=NOW() WHERE id = $1`,
		e.ID, e.DisplayName)
	return err
}

func (r *entryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	return err
}

func (r *entryRepoPG) List(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, display_name, created_at, updated_at FROM `+r.table+
			` ORDER BY display_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *entryRepoPG) CountAppointments(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE `+r.fkColumn+` = $1`, id).Scan(&count)
	return count, err
}
