package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	loc := rome(t)

	t.Run("date only is midnight in zone", func(t *testing.T) {
		ts, err := ParseTimestamp("2025-10-03", loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 10, 3, 0, 0, 0, 0, loc), ts.Time)
		assert.False(t, ts.HasOffset)
	})

	t.Run("rfc3339 keeps offset", func(t *testing.T) {
		ts, err := ParseTimestamp("2025-10-07T09:00:00+02:00", loc)
		require.NoError(t, err)
		assert.True(t, ts.HasOffset)
		_, offset := ts.Time.Zone()
		assert.Equal(t, 2*3600, offset)
	})

	t.Run("minutes without seconds", func(t *testing.T) {
		ts, err := ParseTimestamp("2025-10-03T09:00", loc)
		require.NoError(t, err)
		assert.Equal(t, 9, ts.Time.Hour())
		assert.Equal(t, loc, ts.Time.Location())
	})

	t.Run("epoch string", func(t *testing.T) {
		ts, err := ParseTimestamp("1759474800000", loc)
		require.NoError(t, err)
		assert.Equal(t, int64(1759474800000), ts.Time.UnixMilli())
	})

	t.Run("empty and garbage", func(t *testing.T) {
		_, err := ParseTimestamp("  ", loc)
		assert.ErrorIs(t, err, ErrUnparseableTimestamp)

		_, err = ParseTimestamp("next friday", loc)
		assert.ErrorIs(t, err, ErrUnparseableTimestamp)

		_, err = ParseTimestamp("NaN", loc)
		assert.ErrorIs(t, err, ErrUnparseableTimestamp)
	})
}

func TestParseTimestampJSON(t *testing.T) {
	loc := rome(t)

	ts, err := ParseTimestampJSON(json.RawMessage(`1759474800`), loc)
	require.NoError(t, err)
	assert.Equal(t, int64(1759474800), ts.Time.Unix())

	ts, err = ParseTimestampJSON(json.RawMessage(`"2025-10-03T09:00:00+02:00"`), loc)
	require.NoError(t, err)
	assert.True(t, ts.HasOffset)

	_, err = ParseTimestampJSON(json.RawMessage(`-5`), loc)
	assert.ErrorIs(t, err, ErrUnparseableTimestamp)

	_, err = ParseTimestampJSON(json.RawMessage(`[1,2]`), loc)
	assert.ErrorIs(t, err, ErrUnparseableTimestamp)
}

func TestRawSlot(t *testing.T) {
	slot := NewRawSlot(json.RawMessage(`{"startTime":"2025-10-03T09:00:00+02:00","endTime":"2025-10-03T09:30:00+02:00"}`))
	assert.JSONEq(t, `"2025-10-03T09:00:00+02:00"`, string(slot.StartTime()))

	out, err := json.Marshal([]RawSlot{slot})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"startTime":"2025-10-03T09:00:00+02:00","endTime":"2025-10-03T09:30:00+02:00"}]`, string(out))

	assert.Nil(t, NewRawSlot(json.RawMessage(`"2025-10-03T09:00"`)).StartTime())
	assert.Nil(t, NewRawSlot(json.RawMessage(`{"start":"x"}`)).StartTime())
}
