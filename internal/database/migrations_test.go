package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YunseobShin/wall-street/internal/models"
	"github.com/YunseobShin/wall-street/internal/store"
)

func TestMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("kv_store table has correct columns", func(t *testing.T) {
		expectedColumns := map[string]string{
			"key":        "character varying",
			"value":      "text",
			"updated_at": "timestamp without time zone",
		}

		for colName, expectedType := range expectedColumns {
			var actualType string
			err := testDB.GetRawConn().QueryRow(`
				SELECT data_type
				FROM information_schema.columns
				WHERE table_name = 'kv_store' AND column_name = $1
			`, colName).Scan(&actualType)

			require.NoError(t, err, "column %s should exist in kv_store table", colName)
			assert.Equal(t, expectedType, actualType, "column %s should have type %s", colName, expectedType)
		}
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, testDB.Migrate(migrationsPath()))
	})
}

func TestKVStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)
	ctx := context.Background()

	t.Run("Read on a missing key reports not ok", func(t *testing.T) {
		testDB.TruncateAll(t)

		_, ok, err := testDB.Read(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Write upserts by key", func(t *testing.T) {
		testDB.TruncateAll(t)

		require.NoError(t, testDB.Write(ctx, "k", "one"))
		require.NoError(t, testDB.Write(ctx, "k", "two"))

		v, ok, err := testDB.Read(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "two", v)

		var rows int
		require.NoError(t, testDB.GetRawConn().QueryRow(`SELECT COUNT(*) FROM kv_store`).Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("briefing store persists through postgres", func(t *testing.T) {
		testDB.TruncateAll(t)

		s := store.New(testDB.DB, "pg-test")
		s.Save(ctx, []models.Briefing{})
		s.Upsert(ctx, models.Briefing{ID: "b1", Top1Symbol: "NVDA", Status: models.BriefingStatusReady})

		got, err := s.GetByID(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "NVDA", got.Top1Symbol)
		assert.Len(t, s.Load(ctx), 1)
	})
}
