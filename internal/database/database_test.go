package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	tables := []string{
		"users", "sports", "reviews", "playground_reservations", "playground_sports",
		"equipments", "reservation_slots", "equipment_reservation_slots", "notifications", "metrics",
	}
	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			require.NoError(t, err, "Querying for %s table should not produce an error", table)
			assert.Equal(t, table, name)
		})
	}
}

func TestRunInTx(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := RunInTx(ctx, db, func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO sports (id, name) VALUES ('tennis', 'Tennis')")
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sports").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := RunInTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.Exec("INSERT INTO sports (id, name) VALUES ('padel', 'Padel')"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sports WHERE id = 'padel'").Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("retries busy errors", func(t *testing.T) {
		attempts := 0
		err := RunInTx(ctx, db, func(tx *sql.Tx) error {
			attempts++
			if attempts < 2 {
				return sqlite3.Error{Code: sqlite3.ErrBusy}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", Placeholders(0))
	assert.Equal(t, "?", Placeholders(1))
	assert.Equal(t, "?, ?, ?", Placeholders(3))
	assert.Equal(t, []any{"a", "b"}, Args([]string{"a", "b"}))
}

func TestQueryStrings(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	ctx := context.Background()

	_, err = db.Exec("INSERT INTO sports (id, name) VALUES ('padel', 'Padel'), ('tennis', 'Tennis')")
	require.NoError(t, err)

	ids, err := QueryStrings(ctx, db, "SELECT id FROM sports ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, []string{"padel", "tennis"}, ids)

	ids, err = QueryStrings(ctx, db, "SELECT id FROM sports WHERE name = ?", "Golf")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = QueryStrings(ctx, db, "SELECT id FROM missing_table")
	assert.Error(t, err)
}
