package customers

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

type customerRepoPG struct{ pool *pgxpool.Pool }

func NewCustomerRepoPG(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepoPG{pool: pool}
}

func (r *customerRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const customerCols = `id, cpf, customer_name, surname, nickname, email, phone, address,
	emergency_name, emergency_phone, emergency_relationship,
	birth_date, photo_url, created_at, updated_at`

func (r *customerRepoPG) scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.CPF, &c.Name, &c.Surname, &c.Nickname, &c.Email, &c.Phone, &c.Address,
		&c.EmergencyName, &c.EmergencyPhone, &c.EmergencyRelationship,
		&c.BirthDate, &c.PhotoURL, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *customerRepoPG) Create(ctx context.Context, c *Customer) error {
	c.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO customers (id, cpf, customer_name, surname, nickname, email, phone, address,
			emergency_name, emergency_phone, emergency_relationship, birth_date, photo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		c.ID, c.CPF, c.Name, c.Surname, c.Nickname, c.Email, c.Phone, c.Address,
		c.EmergencyName, c.EmergencyPhone, c.EmergencyRelationship, c.BirthDate, c.PhotoURL).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *customerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return r.scanCustomer(r.conn(ctx).QueryRow(ctx,
		`SELECT `+customerCols+` FROM customers WHERE id = $1`, id))
}

func (r *customerRepoPG) GetByCPF(ctx context.Context, cpf string) (*Customer, error) {
	return r.scanCustomer(r.conn(ctx).QueryRow(ctx,
		`SELECT `+customerCols+` FROM customers WHERE cpf = $1`, cpf))
}

func (r *customerRepoPG) Update(ctx context.Context, c *Customer) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE customers SET cpf=$2, customer_name=$3, surname=$4, nickname=$5, email=$6,
			phone=$7, address=$8, emergency_name=$9, emergency_phone=$10,
			emergency_relationship=$11, birth_date=$12, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.CPF, c.Name, c.Surname, c.Nickname, c.Email, c.Phone,
		c.Address, c.EmergencyName, c.EmergencyPhone, c.EmergencyRelationship, c.BirthDate)
	return err
}

func (r *customerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}

func (r *customerRepoPG) List(ctx context.Context, limit, offset int) ([]*Customer, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+customerCols+` FROM customers ORDER BY customer_name, surname LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *customerRepoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Customer, int, error) {
	pattern := "%" + query + "%"
	const where = `customer_name ILIKE $1 OR surname ILIKE $1 OR nickname ILIKE $1
		OR email ILIKE $1 OR phone ILIKE $1 OR cpf ILIKE $1`

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE `+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+customerCols+` FROM customers WHERE `+where+
			` ORDER BY customer_name, surname LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *customerRepoPG) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE customers SET photo_url=$2, updated_at=NOW() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepoPG) collect(rows pgx.Rows, total int) ([]*Customer, int, error) {
	var items []*Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
