package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp scans a nullable timestamp. Postgres hands over time.Time while
// SQLite may return text depending on the declared column type.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

func (t *Timestamp) parse(value string) error {
	value = strings.TrimSpace(value)
	if idx := strings.Index(value, " m="); idx >= 0 {
		value = value[:idx]
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", value)
}

// Ptr returns nil for NULL.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	out := t.Time
	return &out
}

// Nullable converts an optional value into a query argument.
func Nullable[T any](value *T) any {
	if value == nil {
		return nil
	}
	return *value
}

// NullableTime is Nullable for timestamps, normalised to UTC.
func NullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}

func StringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	out := value.String
	return &out
}

func IntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}

// Placeholders renders "$start, $start+1, ..." for count arguments.
func Placeholders(start, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}

// SoftDelete tombstones a live row and bumps its version. It returns false
// when no live row matched.
func SoftDelete(ctx context.Context, q DBTX, table, id, actor string, now time.Time) (bool, error) {
	res, err := q.ExecContext(ctx,
		"UPDATE "+table+" SET deleted_at = $1, updated_at = $1, updated_by = $2, version = version + 1 WHERE id = $3 AND deleted_at IS NULL",
		now, actor, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// ExpectOne maps a versioned UPDATE result to ErrStaleWrite when no row
// matched.
func ExpectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStaleWrite
	}
	return nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
