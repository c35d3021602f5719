package install

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestEstimator_NoSamples(t *testing.T) {
	e := NewEstimator()

	assert.Equal(t, time.Duration(0), e.Average())
	assert.Equal(t, time.Duration(0), e.EstimateRemaining(10, 0))
	assert.Equal(t, 0, e.Count())
}

func TestEstimator_FinishWithoutStart(t *testing.T) {
	e := NewEstimator()

	assert.Equal(t, time.Duration(0), e.Finish())
	assert.Equal(t, 0, e.Count())
}

func TestEstimator_AverageEstimate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	e := NewEstimatorWithClock(clock.Now)

	for _, d := range []time.Duration{10 * time.Second, 20 * time.Second, 30 * time.Second} {
		e.Start()
		clock.Advance(d)
		e.Finish()
	}

	assert.Equal(t, 3, e.Count())
	assert.Equal(t, 20*time.Second, e.Average())

	// Three of five steps attempted, two remain.
	assert.Equal(t, 40*time.Second, e.EstimateRemaining(5, 3))
}

func TestEstimator_NothingRemaining(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	e := NewEstimatorWithClock(clock.Now)

	e.Start()
	clock.Advance(5 * time.Second)
	e.Finish()

	assert.Equal(t, time.Duration(0), e.EstimateRemaining(3, 3))
	assert.Equal(t, time.Duration(0), e.EstimateRemaining(3, 4))
}

func TestEstimator_FinishReturnsElapsed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	e := NewEstimatorWithClock(clock.Now)

	e.Start()
	clock.Advance(7 * time.Second)
	assert.Equal(t, 7*time.Second, e.Finish())
}
