package ordering_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"taskboard/internal/ordering"
)

func TestAppend_EmptySiblings(t *testing.T) {
	assert.Equal(t, 0.0, ordering.Append(nil))
}

func TestAppend_ReturnsMaxPlusOne(t *testing.T) {
	assert.Equal(t, 3.0, ordering.Append([]float64{0, 1, 2}))

	// order must not matter
	assert.Equal(t, 3.0, ordering.Append([]float64{2, 0, 1}))
}

func TestInsertAt_EmptySiblings(t *testing.T) {
	pos, ok := ordering.InsertAt(nil, 0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, pos)
}

func TestInsertAt_Head(t *testing.T) {
	pos, ok := ordering.InsertAt([]float64{0, 1, 2}, 0)
	assert.True(t, ok)
	assert.Equal(t, -1.0, pos)
}

func TestInsertAt_Tail(t *testing.T) {
	pos, ok := ordering.InsertAt([]float64{0, 1, 2}, 3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, pos)

	// indexes past the end clamp to the tail
	pos, ok = ordering.InsertAt([]float64{0, 1, 2}, 42)
	assert.True(t, ok)
	assert.Equal(t, 3.0, pos)
}

func TestInsertAt_NegativeIndexClampsToHead(t *testing.T) {
	pos, ok := ordering.InsertAt([]float64{5, 6}, -3)
	assert.True(t, ok)
	assert.Equal(t, 4.0, pos)
}

func TestInsertAt_Midpoint(t *testing.T) {
	pos, ok := ordering.InsertAt([]float64{0, 2}, 1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, pos)

	pos, ok = ordering.InsertAt([]float64{0, 1, 2}, 2)
	assert.True(t, ok)
	assert.Equal(t, 1.5, pos)
}

func TestInsertAt_PrecisionExhausted(t *testing.T) {
	_, ok := ordering.InsertAt([]float64{0, 1e-7}, 1)
	assert.False(t, ok)
}

func TestInsertAt_RepeatedMidpointsEventuallyExhaust(t *testing.T) {
	positions := []float64{0, 1}
	exhausted := false
	for i := 0; i < 64; i++ {
		pos, ok := ordering.InsertAt(positions, 1)
		if !ok {
			exhausted = true
			break
		}
		positions[1] = pos
	}
	assert.True(t, exhausted)
}

func TestCompacted(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	assignments := ordering.Compacted(ids)

	assert.Len(t, assignments, 3)
	for i, a := range assignments {
		assert.Equal(t, ids[i], a.ID)
		assert.Equal(t, float64(i), a.Position)
	}
}
