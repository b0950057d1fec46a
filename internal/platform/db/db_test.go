package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigrated(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	conn, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, Migrate(ctx, conn.DB))
	return conn
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, conn.DB))

	statuses, err := Status(ctx, conn.DB)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.True(t, s.Applied, s.Version)
	}

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations").Scan(&count))
	assert.Equal(t, len(statuses), count)
}

func TestSplitStatements(t *testing.T) {
	script := "-- header\nCREATE TABLE a (\n  id TEXT\n);\n\nCREATE INDEX i ON a(id);\n"
	stmts := splitStatements(script)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE a")
	assert.Equal(t, "CREATE INDEX i ON a(id);", stmts[1])
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2026, 3, 1, 9, 30, 0, 123000000, time.UTC)

	cases := []any{
		want,
		want.Format(time.RFC3339Nano),
		want.String(),
		[]byte(want.Format("2006-01-02 15:04:05.999999999-07:00")),
	}
	for _, src := range cases {
		var ts Timestamp
		require.NoError(t, ts.Scan(src))
		assert.True(t, ts.Valid)
		assert.True(t, want.Equal(ts.Time), "%v parsed as %v", src, ts.Time)
	}

	var null Timestamp
	require.NoError(t, null.Scan(nil))
	assert.Nil(t, null.Ptr())

	var bad Timestamp
	assert.Error(t, bad.Scan("yesterday"))
}

func TestTimestampRoundTripsThroughSQLite(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := conn.ExecContext(ctx, `INSERT INTO evaluation_lines
		(id, evaluator_type, line_order, is_required, is_auto_assigned, created_by, updated_by, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7, $7, 1)`,
		"line-1", "primary", 1, true, true, "tester", now)
	require.NoError(t, err)

	var created Timestamp
	var required bool
	require.NoError(t, conn.QueryRowContext(ctx,
		"SELECT created_at, is_required FROM evaluation_lines WHERE id = $1", "line-1").Scan(&created, &required))
	assert.True(t, now.Equal(created.Time))
	assert.True(t, required)
}

func TestIsUniqueViolation(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insert := func(id string) error {
		_, err := conn.ExecContext(ctx, `INSERT INTO evaluation_lines
			(id, evaluator_type, line_order, is_required, is_auto_assigned, created_by, updated_by, created_at, updated_at, version)
			VALUES ($1, 'secondary', 2, $2, $3, 'tester', 'tester', $4, $4, 1)`, id, false, true, now)
		return err
	}
	require.NoError(t, insert("line-a"))
	err := insert("line-b")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
}

func TestSoftDeleteFreesPartialUniqueIndex(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insert := func(id string) error {
		_, err := conn.ExecContext(ctx, `INSERT INTO evaluation_lines
			(id, evaluator_type, line_order, is_required, is_auto_assigned, created_by, updated_by, created_at, updated_at, version)
			VALUES ($1, 'primary', 1, $2, $2, 'tester', 'tester', $3, $3, 1)`, id, true, now)
		return err
	}
	require.NoError(t, insert("old"))

	deleted, err := SoftDelete(ctx, conn, "evaluation_lines", "old", "tester", now)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = SoftDelete(ctx, conn, "evaluation_lines", "old", "tester", now)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete must not match a tombstoned row")

	require.NoError(t, insert("new"))

	var version int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT version FROM evaluation_lines WHERE id = $1", "old").Scan(&version))
	assert.Equal(t, 2, version)
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()
	uow := NewUnitOfWork(conn.DB)
	boom := errors.New("boom")

	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO departments (id, name, code) VALUES ($1, $2, $3)`, "d1", "Platform", "PLT"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(1) FROM departments").Scan(&count))
	assert.Zero(t, count)
}

func TestExpectOne(t *testing.T) {
	conn := openMigrated(t)
	ctx := context.Background()

	err := ExpectOne(conn.ExecContext(ctx, "UPDATE departments SET name = $1 WHERE id = $2", "x", "missing"))
	assert.ErrorIs(t, err, ErrStaleWrite)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3, $4, $5", Placeholders(3, 3))
	assert.Equal(t, "", Placeholders(1, 0))
}

func TestConnectRejectsUnknownScheme(t *testing.T) {
	_, err := Connect(context.Background(), "mysql://localhost/db", Options{})
	assert.Error(t, err)
}
