// Package reservations persists booking rows behind a Store interface and
// implements the lookup rules the dialog flows depend on.
package reservations

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StatusConfirmed marks a live booking.
const StatusConfirmed = "Confirmed"

// TimestampLayout is the format of Record.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrUnavailable wraps every backend failure.
var ErrUnavailable = errors.New("reservations: store unavailable")

// Record is one booking row. Date and Time hold the display strings used at
// creation; they are the lookup key together with Phone.
type Record struct {
	Timestamp string
	Name      string
	Phone     string
	Email     string
	Guests    int
	Date      string
	Time      string
	Table     int
	Status    string
}

// Field names a column of the persisted row. The numeric value is the
// column position and must not change.
type Field int

const (
	FieldTimestamp Field = iota
	FieldName
	FieldPhone
	FieldEmail
	FieldGuests
	FieldDate
	FieldTime
	FieldTable
	FieldStatus

	columnCount = int(FieldStatus) + 1
)

var fieldNames = [columnCount]string{"timestamp", "name", "phone", "email", "guests", "date", "time", "table", "status"}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Valid reports whether f is a known column.
func (f Field) Valid() bool {
	return f >= FieldTimestamp && f <= FieldStatus
}

func (f Field) numeric() bool {
	return f == FieldGuests || f == FieldTable
}

// Row renders the record in persisted column order.
func (r Record) Row() []string {
	return []string{
		r.Timestamp,
		r.Name,
		r.Phone,
		r.Email,
		strconv.Itoa(r.Guests),
		r.Date,
		r.Time,
		strconv.Itoa(r.Table),
		r.Status,
	}
}

// RecordFromRow parses a persisted row. Short rows are padded with empty
// cells and non-numeric counts read as zero.
func RecordFromRow(row []string) Record {
	cells := make([]string, columnCount)
	copy(cells, row)
	guests, _ := strconv.Atoi(strings.TrimSpace(cells[FieldGuests]))
	table, _ := strconv.Atoi(strings.TrimSpace(cells[FieldTable]))
	return Record{
		Timestamp: cells[FieldTimestamp],
		Name:      cells[FieldName],
		Phone:     cells[FieldPhone],
		Email:     cells[FieldEmail],
		Guests:    guests,
		Date:      cells[FieldDate],
		Time:      cells[FieldTime],
		Table:     table,
		Status:    cells[FieldStatus],
	}
}

// Confirmed reports whether the booking is live.
func (r Record) Confirmed() bool {
	return strings.TrimSpace(r.Status) == StatusConfirmed
}

func (r *Record) set(field Field, value string) error {
	if field.numeric() {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("reservations: %s must be a number: %q", field, value)
		}
		if field == FieldGuests {
			r.Guests = n
		} else {
			r.Table = n
		}
		return nil
	}
	switch field {
	case FieldTimestamp:
		r.Timestamp = value
	case FieldName:
		r.Name = value
	case FieldPhone:
		r.Phone = value
	case FieldEmail:
		r.Email = value
	case FieldDate:
		r.Date = value
	case FieldTime:
		r.Time = value
	case FieldStatus:
		r.Status = value
	default:
		return fmt.Errorf("reservations: unknown %s", field)
	}
	return nil
}

// Key identifies a confirmed booking by phone and display date/time.
type Key struct {
	Phone string
	Date  string
	Time  string
}

// Matches is trimmed exact equality on phone, date and time, restricted to
// confirmed records.
func (k Key) Matches(r Record) bool {
	return r.Confirmed() &&
		strings.TrimSpace(r.Phone) == strings.TrimSpace(k.Phone) &&
		strings.TrimSpace(r.Date) == strings.TrimSpace(k.Date) &&
		strings.TrimSpace(r.Time) == strings.TrimSpace(k.Time)
}

func samePhone(r Record, phone string) bool {
	return strings.TrimSpace(r.Phone) == strings.TrimSpace(phone)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
