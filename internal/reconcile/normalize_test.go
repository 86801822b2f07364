package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimestamp(t *testing.T) {
	loc := time.UTC
	// 2026-03-05T10:00:00Z
	const asSeconds = "1772704800"
	const asMillis = "1772704800000"
	want := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)

	t.Run("unix seconds are scaled to milliseconds", func(t *testing.T) {
		got, ok := NormalizeTimestamp(asSeconds, loc)
		require.True(t, ok)
		assert.True(t, got.Equal(want), "got %v", got)
	})

	t.Run("unix milliseconds are taken as-is", func(t *testing.T) {
		got, ok := NormalizeTimestamp(asMillis, loc)
		require.True(t, ok)
		assert.True(t, got.Equal(want), "got %v", got)
	})

	t.Run("RFC 3339 string", func(t *testing.T) {
		got, ok := NormalizeTimestamp("2026-03-05T10:00:00Z", loc)
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})

	t.Run("RFC 3339 with offset and fraction", func(t *testing.T) {
		got, ok := NormalizeTimestamp("2026-03-05T12:00:00.500+02:00", loc)
		require.True(t, ok)
		assert.True(t, got.Equal(want.Add(500*time.Millisecond)))
	})

	t.Run("naive date-only string in the given location", func(t *testing.T) {
		got, ok := NormalizeTimestamp("2026-03-05", loc)
		require.True(t, ok)
		assert.True(t, got.Equal(time.Date(2026, time.March, 5, 0, 0, 0, 0, loc)))
	})

	t.Run("empty input has no value", func(t *testing.T) {
		_, ok := NormalizeTimestamp("", loc)
		assert.False(t, ok)
	})

	t.Run("garbage has no value", func(t *testing.T) {
		_, ok := NormalizeTimestamp("not-a-date", loc)
		assert.False(t, ok)
	})

	t.Run("digits exceeding int64 have no value", func(t *testing.T) {
		_, ok := NormalizeTimestamp("99999999999999999999999999", loc)
		assert.False(t, ok)
	})

	t.Run("nil location falls back to local", func(t *testing.T) {
		got, ok := NormalizeTimestamp(asSeconds, nil)
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})
}
