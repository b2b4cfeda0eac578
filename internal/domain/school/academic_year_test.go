package school

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewAcademicYear(t *testing.T) {
	schoolID := uuid.New()

	t.Run("creates year with valid range", func(t *testing.T) {
		y, err := NewAcademicYear(schoolID, "2024-25", date(2024, time.June, 1), date(2025, time.April, 30))
		require.NoError(t, err)
		assert.Equal(t, "2024-25", y.Name)
		assert.True(t, y.IsActive)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := NewAcademicYear(schoolID, "bad", date(2025, time.April, 30), date(2024, time.June, 1))
		assert.Error(t, err)
	})
}

func TestAcademicYear_MonthCount(t *testing.T) {
	schoolID := uuid.New()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"full year", date(2024, time.June, 1), date(2025, time.April, 30), 11},
		{"same month", date(2024, time.June, 15), date(2024, time.June, 20), 1},
		{"two calendar years", date(2024, time.December, 1), date(2025, time.January, 31), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, err := NewAcademicYear(schoolID, tt.name, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, y.MonthCount())
		})
	}
}

func TestAcademicYear_Contains(t *testing.T) {
	y, err := NewAcademicYear(uuid.New(), "2024-25", date(2024, time.June, 1), date(2025, time.April, 30))
	require.NoError(t, err)

	assert.True(t, y.Contains(date(2024, time.June, 1)))
	assert.True(t, y.Contains(date(2025, time.April, 30)))
	assert.False(t, y.Contains(date(2024, time.May, 31)))
	assert.False(t, y.Contains(date(2025, time.May, 1)))
}

func TestHoliday_DaysInMonth(t *testing.T) {
	h, err := NewHoliday(uuid.New(), "Winter break", date(2024, time.December, 24), date(2025, time.January, 2))
	require.NoError(t, err)

	assert.Equal(t, 8, h.DaysInMonth(time.December, 2024))
	assert.Equal(t, 2, h.DaysInMonth(time.January, 2025))
	assert.Equal(t, 0, h.DaysInMonth(time.November, 2024))
}
