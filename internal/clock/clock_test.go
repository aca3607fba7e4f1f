package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	c := NewFakeClock(start)
	assert.Equal(t, time.UTC, c.Now().Location())
	assert.True(t, c.Now().Equal(start))

	c.Advance(90 * time.Minute)
	assert.True(t, c.Now().Equal(start.Add(90*time.Minute)))

	c.Set(time.Unix(0, 0))
	assert.Equal(t, int64(0), c.Now().Unix())
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, New().Now().Location())
}
