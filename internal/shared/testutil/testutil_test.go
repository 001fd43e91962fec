package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("loaded", slog.Int("rows", 4))
		logger.Error("failed", slog.String("reason", "boom"))

		require.Len(t, handler.Records(), 2)
		assert.True(t, handler.ContainsMessage("loaded"))
		assert.True(t, handler.ContainsAttr("rows", int64(4)))
		assert.Len(t, handler.RecordsByLevel(slog.LevelError), 1)
	})

	t.Run("derived loggers share the store", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("service", "report")).WithGroup("load").Info("done", slog.Int("rows", 2))

		record, ok := handler.Find("done")
		require.True(t, ok)
		assert.Equal(t, "report", record.Attrs["service"])
		assert.Equal(t, int64(2), record.Attrs["load.rows"])
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)
		logger.Warn("one")
		handler.Clear()
		assert.Empty(t, handler.Records())
		AssertNoErrors(t, handler)
	})
}

func TestGoldenRecords(t *testing.T) {
	records := GoldenRecords()
	require.Len(t, records, 4)
	assert.Equal(t, "2024-01", records[0].Period)
	assert.Equal(t, "63", records[0].Total.String())
	assert.True(t, records[0].Date.Before(records[3].Date))

	path := WriteSource(t, "golden.csv", GoldenCSV)
	assert.FileExists(t, path)
}
