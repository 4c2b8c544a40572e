package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthNameCoversCalendar(t *testing.T) {
	want := []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	for i, name := range want {
		assert.Equal(t, name, MonthName(i+1))
	}
}

func TestMonthNameBoundaries(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
}

func TestBuildMonthlyMergesSameMonth(t *testing.T) {
	rows := []MonthRow{
		{Year: 2026, Month: 3, Total: 235},
		{Year: 2026, Month: 3, Total: 120.5},
	}
	out := BuildMonthly(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "March", out[0].Month)
	assert.Equal(t, 2026, out[0].Year)
	assert.Equal(t, 355.5, out[0].Total)
}

func TestBuildMonthlySortsAcrossYearBoundary(t *testing.T) {
	rows := []MonthRow{
		{Year: 2026, Month: 1, Total: 50},
		{Year: 2025, Month: 12, Total: 75},
		{Year: 2025, Month: 6, Total: 20},
	}
	out := BuildMonthly(rows)
	require.Len(t, out, 3)
	assert.Equal(t, "June", out[0].Month)
	assert.Equal(t, "December", out[1].Month)
	assert.Equal(t, 2025, out[1].Year)
	assert.Equal(t, "January", out[2].Month)
	assert.Equal(t, 2026, out[2].Year)
}

func TestBuildMonthlyDropsInvalidMonths(t *testing.T) {
	rows := []MonthRow{
		{Year: 2026, Month: 0, Total: 99},
		{Year: 2026, Month: 13, Total: 99},
		{Year: 2026, Month: 7, Total: 10},
	}
	out := BuildMonthly(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "July", out[0].Month)
}

func TestBuildMonthlyEmpty(t *testing.T) {
	assert.Empty(t, BuildMonthly(nil))
}
