package reservations

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps reservations in the reservations table.
type PostgresStore struct {
	db querier
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("reservations: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

func newPostgresStoreWithQuerier(db querier) *PostgresStore {
	if db == nil {
		panic("reservations: querier required")
	}
	return &PostgresStore{db: db}
}

// columns maps fields to the only column names UpdateField may write.
var columns = map[Field]string{
	FieldTimestamp: "booked_at",
	FieldName:      "name",
	FieldPhone:     "phone",
	FieldEmail:     "email",
	FieldGuests:    "guests",
	FieldDate:      "reservation_date",
	FieldTime:      "reservation_time",
	FieldTable:     "table_number",
	FieldStatus:    "status",
}

const selectColumns = `booked_at, name, phone, email, guests, reservation_date, reservation_time, table_number, status`

// firstMatch selects the oldest confirmed row matching phone, date and time,
// bound to placeholders $n..$n+3.
func firstMatch(n int) string {
	return fmt.Sprintf(`SELECT id FROM reservations
		WHERE btrim(phone) = $%d AND btrim(reservation_date) = $%d AND btrim(reservation_time) = $%d AND status = $%d
		ORDER BY id
		LIMIT 1`, n, n+1, n+2, n+3)
}

func (s *PostgresStore) Append(ctx context.Context, r Record) error {
	query := `
		INSERT INTO reservations (` + selectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.Exec(ctx, query, r.Timestamp, r.Name, r.Phone, r.Email, r.Guests, r.Date, r.Time, r.Table, r.Status)
	if err != nil {
		return unavailable("postgres insert", err)
	}
	return nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM reservations ORDER BY id`)
}

func (s *PostgresStore) FindByPhone(ctx context.Context, phone string) ([]Record, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM reservations WHERE btrim(phone) = $1 AND status = $2 ORDER BY id`,
		strings.TrimSpace(phone), StatusConfirmed)
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, unavailable("postgres query", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Timestamp, &r.Name, &r.Phone, &r.Email, &r.Guests, &r.Date, &r.Time, &r.Table, &r.Status); err != nil {
			return nil, unavailable("postgres scan", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("postgres rows", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateField(ctx context.Context, key Key, field Field, value string) (bool, error) {
	column, ok := columns[field]
	if !ok {
		return false, fmt.Errorf("reservations: unknown %s", field)
	}
	var arg any = value
	if field.numeric() {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return false, fmt.Errorf("reservations: %s must be a number: %q", field, value)
		}
		arg = n
	}

	query := `UPDATE reservations SET ` + column + ` = $1 WHERE id = (` + firstMatch(2) + `)`
	tag, err := s.db.Exec(ctx, query, arg, strings.TrimSpace(key.Phone), strings.TrimSpace(key.Date), strings.TrimSpace(key.Time), StatusConfirmed)
	if err != nil {
		return false, unavailable("postgres update", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key Key) (bool, error) {
	query := `DELETE FROM reservations WHERE id = (` + firstMatch(1) + `)`
	tag, err := s.db.Exec(ctx, query, strings.TrimSpace(key.Phone), strings.TrimSpace(key.Date), strings.TrimSpace(key.Time), StatusConfirmed)
	if err != nil {
		return false, unavailable("postgres delete", err)
	}
	return tag.RowsAffected() > 0, nil
}
