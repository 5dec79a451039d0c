package scheduling

import (
	"context"
	"fmt"
	"time"

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

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, customer_id, service_id, professional_id, room_id,
	appointment_time, status, created_at, updated_at`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.CustomerID, &a.ServiceID, &a.ProfessionalID, &a.RoomID,
		&a.AppointmentTime, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	if a.Status == "" {
		a.Status = StatusPending
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, customer_id, service_id, professional_id, room_id,
			appointment_time, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		a.ID, a.CustomerID, a.ServiceID, a.ProfessionalID, a.RoomID,
		a.AppointmentTime, a.Status).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *appointmentRepoPG) CreateBatch(ctx context.Context, appts []*Appointment) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		for _, a := range appts {
			if err := r.Create(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET customer_id=$2, service_id=$3, professional_id=$4,
			room_id=$5, appointment_time=$6, status=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.CustomerID, a.ServiceID, a.ProfessionalID, a.RoomID,
		a.AppointmentTime, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func (r *appointmentRepoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if !f.Day.IsZero() {
		where += fmt.Sprintf(` AND appointment_time >= $%d AND appointment_time < $%d`, idx, idx+1)
		args = append(args, f.Day, f.Day.AddDate(0, 0, 1))
		idx += 2
	} else {
		if !f.From.IsZero() {
			where += fmt.Sprintf(` AND appointment_time >= $%d`, idx)
			args = append(args, f.From)
			idx++
		}
		if !f.To.IsZero() {
			where += fmt.Sprintf(` AND appointment_time <= $%d`, idx)
			args = append(args, f.To)
			idx++
		}
	}
	if f.CustomerID != uuid.Nil {
		where += fmt.Sprintf(` AND customer_id = $%d`, idx)
		args = append(args, f.CustomerID)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+apptCols+` FROM appointments`+where+
		` ORDER BY appointment_time ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *appointmentRepoPG) FindProfessionalConflicts(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]*Appointment, error) {
	return r.findConflicts(ctx, "professional_id", professionalID, start, end)
}

func (r *appointmentRepoPG) FindRoomConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time) ([]*Appointment, error) {
	return r.findConflicts(ctx, "room_id", roomID, start, end)
}

// column is one of the two fixed resource columns above, never caller input.
func (r *appointmentRepoPG) findConflicts(ctx context.Context, column string, resourceID uuid.UUID, start, end time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE `+column+` = $1
		  AND appointment_time >= $2 AND appointment_time <= $3
		  AND status <> $4
		ORDER BY appointment_time ASC`,
		resourceID, start, end, StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *appointmentRepoPG) collect(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
