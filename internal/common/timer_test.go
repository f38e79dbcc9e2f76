package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewNamedTimer("simplify")

	time.Sleep(5 * time.Millisecond)

	duration := timer.Stop()
	assert.GreaterOrEqual(t, duration, 5*time.Millisecond)
	assert.Equal(t, duration, timer.Duration())
	assert.Contains(t, timer.String(), "simplify")
}

func TestStageTimer_LapsAccumulate(t *testing.T) {
	st := NewStageTimer()

	time.Sleep(2 * time.Millisecond)
	first := st.Lap("curvature")
	st.Lap("regions")
	time.Sleep(2 * time.Millisecond)
	st.Lap("curvature")

	laps := map[string]time.Duration{}
	st.CopyTo(laps)

	assert.Len(t, laps, 2)
	assert.GreaterOrEqual(t, laps["curvature"], first+2*time.Millisecond)
	assert.Equal(t, st.Total(), laps["curvature"]+laps["regions"])
	assert.Equal(t, []string{"curvature", "regions"}, st.SortedStages())
	assert.Contains(t, st.String(), "curvature=")
}
