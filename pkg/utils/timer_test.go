package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_PhaseDurations(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := NewTimer("pipeline", WithClock(clock))

	pt := timer.Start("grid")
	clock.Advance(50 * time.Millisecond)
	d := pt.Stop()

	assert.Equal(t, 50*time.Millisecond, d)
	assert.Equal(t, 50*time.Millisecond, timer.GetDuration("grid"))

	// Second Stop has no effect.
	clock.Advance(time.Second)
	assert.Equal(t, 50*time.Millisecond, pt.Stop())
}

func TestTimer_Summary(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := NewTimer("pipeline", WithClock(clock))

	pt := timer.Start("neighborhood")
	clock.Advance(10 * time.Millisecond)
	pt.Stop()

	summary := timer.Summary()
	assert.Contains(t, summary, "pipeline Timing Summary")
	assert.Contains(t, summary, "Phase 1 - neighborhood")
}

func TestTimer_TimeFuncWithError(t *testing.T) {
	timer := NewTimer("pipeline")
	wantErr := errors.New("boom")

	_, err := timer.TimeFuncWithError("ids", func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)
}

func TestTimer_Disabled(t *testing.T) {
	timer := NewTimer("pipeline", WithEnabled(false))
	pt := timer.Start("grid")
	assert.Equal(t, time.Duration(0), pt.Stop())
	assert.Equal(t, "", timer.Summary())
}

func TestNullTimer(t *testing.T) {
	pt := NullTimer.Start("anything")
	assert.Equal(t, time.Duration(0), pt.Stop())
}
