package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestProfilerReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	var out bytes.Buffer
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(2*time.Second),
		WithLogger(slog.New(slog.NewTextHandler(&out, nil))),
	)

	for range 39 {
		clock.t = clock.t.Add(50 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Zero(t, p.Last().Frames)
	assert.Empty(t, out.String())

	clock.t = clock.t.Add(50 * time.Millisecond)
	assert.True(t, p.Tick())

	s := p.Last()
	assert.Equal(t, 40, s.Frames)
	assert.InDelta(t, 20, s.FPS, 1e-9)
	assert.Greater(t, s.SysMB, 0.0)
	assert.Contains(t, out.String(), "fps=")

	// the next period starts from zero
	clock.t = clock.t.Add(time.Second)
	assert.False(t, p.Tick())
}

func TestProfilerOptionsIgnoreInvalid(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithInterval(-time.Second), WithLogger(nil), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.now)
}
