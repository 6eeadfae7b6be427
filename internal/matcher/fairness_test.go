package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFairness_NoPII(t *testing.T) {
	report := Fairness("python django", candidates("python django", "java"), true)

	require.Len(t, report.Shifts, 2)
	assert.Zero(t, report.MaxShift)
	assert.Zero(t, report.AvgShift)
	assert.False(t, report.Sensitive)
	assert.Contains(t, report.Note, "No strong evidence")
}

func TestFairness_DetectsShift(t *testing.T) {
	// different emails collapse to the same placeholder once redacted
	report := Fairness("python jane@corp.com", candidates("python john@corp.com", "python"), true)

	require.Len(t, report.Shifts, 2)
	assert.Greater(t, report.Shifts[0].Anonymous, report.Shifts[0].Base)
	assert.Equal(t, report.Shifts[0].Anonymous-report.Shifts[0].Base, report.Shifts[0].Delta)
	assert.InDelta(t, 1.0, report.Shifts[0].Anonymous, 1e-9)
	assert.Greater(t, report.MaxShift, 0.10)
	assert.Equal(t, "Candidate 1", report.MaxShiftName)
	assert.True(t, report.Sensitive)
}

func TestFairness_Empty(t *testing.T) {
	report := Fairness("python", nil, true)
	assert.Empty(t, report.Shifts)
	assert.False(t, report.Sensitive)
}
