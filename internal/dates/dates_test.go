package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorage(t *testing.T) {
	t.Run("accepts all storage formats", func(t *testing.T) {
		tests := []struct {
			input    string
			expected time.Time
		}{
			{"2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)},
			{"2025-03-10T14:30", time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)},
			{"2025-03-10T14:30:45", time.Date(2025, 3, 10, 14, 30, 45, 0, time.Local)},
		}

		for _, tc := range tests {
			parsed, err := ParseStorage(tc.input)
			require.NoError(t, err, "input %q", tc.input)
			assert.True(t, parsed.Equal(tc.expected), "input %q: got %v", tc.input, parsed)
		}
	})

	t.Run("empty string parses to zero time", func(t *testing.T) {
		parsed, err := ParseStorage("")
		require.NoError(t, err)
		assert.True(t, parsed.IsZero())
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, input := range []string{"tomorrow", "10/03/2025", "2025-13-40", "2025-03-10 14:30"} {
			_, err := ParseStorage(input)
			require.Error(t, err, "input %q", input)

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr, "input %q", input)
			assert.Equal(t, input, formatErr.Value)
		}
	})
}

func TestNormalizeForField(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 42, 7, 0, time.Local)

	t.Run("bare due date runs to end of day", func(t *testing.T) {
		normalized, err := NormalizeForField("2025-03-12", FieldDueDate, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 12, 23, 59, 59, 0, time.Local), normalized)
	})

	t.Run("bare do date starts at midnight", func(t *testing.T) {
		normalized, err := NormalizeForField("2025-03-12", FieldDoDate, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local), normalized)
	})

	t.Run("bare completed_at takes the current wall clock", func(t *testing.T) {
		normalized, err := NormalizeForField("2025-03-08", FieldCompletedAt, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 8, 15, 42, 7, 0, time.Local), normalized)
	})

	t.Run("explicit time wins over field defaults", func(t *testing.T) {
		normalized, err := NormalizeForField("2025-03-12T08:15", FieldDueDate, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 12, 8, 15, 0, 0, time.Local), normalized)
	})

	t.Run("empty value normalizes to zero, not error", func(t *testing.T) {
		normalized, err := NormalizeForField("", FieldDueDate, now)
		require.NoError(t, err)
		assert.True(t, normalized.IsZero())
	})

	t.Run("garbage fails with FormatError", func(t *testing.T) {
		_, err := NormalizeForField("next tuesday", FieldDoDate, now)
		var formatErr *FormatError
		assert.True(t, errors.As(err, &formatErr))
	})
}

func TestFormatForStorage(t *testing.T) {
	t.Run("default clock collapses to a bare date", func(t *testing.T) {
		due := time.Date(2025, 3, 12, 23, 59, 59, 0, time.Local)
		assert.Equal(t, "2025-03-12", FormatForStorage(due, FieldDueDate))

		do := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
		assert.Equal(t, "2025-03-12", FormatForStorage(do, FieldDoDate))
	})

	t.Run("non-default clock keeps the time", func(t *testing.T) {
		due := time.Date(2025, 3, 12, 8, 15, 0, 0, time.Local)
		assert.Equal(t, "2025-03-12T08:15", FormatForStorage(due, FieldDueDate))
	})

	t.Run("completed_at always serializes with full time", func(t *testing.T) {
		completed := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
		assert.Equal(t, "2025-03-12T00:00:00", FormatForStorage(completed, FieldCompletedAt))
	})

	t.Run("zero time serializes as empty", func(t *testing.T) {
		assert.Equal(t, "", FormatForStorage(time.Time{}, FieldDueDate))
	})

	t.Run("left inverse of normalization", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 15, 42, 7, 0, time.Local)
		for _, field := range []string{FieldDoDate, FieldDueDate} {
			for _, input := range []string{"2025-03-12", "2025-03-12T08:15"} {
				normalized, err := NormalizeForField(input, field, now)
				require.NoError(t, err)
				assert.Equal(t, input, FormatForStorage(normalized, field), "field %s", field)
			}
		}
	})
}
