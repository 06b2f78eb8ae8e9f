package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sumHours(alloc map[string]int) int {
	total := 0
	for _, h := range alloc {
		total += h
	}
	return total
}

func TestAllocateHoursExactSumEqualWeights(t *testing.T) {
	weights := map[string]float64{"a": 10, "b": 10, "c": 10}

	alloc := AllocateHours(weights, nil, 10)

	assert.Equal(t, 10, sumHours(alloc))
	// The remainder hour lands on the first subject by id.
	assert.Equal(t, 4, alloc["a"])
	assert.Equal(t, 3, alloc["b"])
	assert.Equal(t, 3, alloc["c"])
}

func TestAllocateHoursProportional(t *testing.T) {
	weights := map[string]float64{"a": 50, "b": 30, "c": 20}

	alloc := AllocateHours(weights, nil, 20)

	assert.Equal(t, 10, alloc["a"])
	assert.Equal(t, 6, alloc["b"])
	assert.Equal(t, 4, alloc["c"])
}

func TestAllocateHoursRespectsCaps(t *testing.T) {
	weights := map[string]float64{"a": 100, "b": 10}
	caps := map[string]int{"a": 5}

	alloc := AllocateHours(weights, caps, 10)

	assert.LessOrEqual(t, alloc["a"], 5)
	assert.GreaterOrEqual(t, alloc["b"], 5)
	assert.Equal(t, 10, sumHours(alloc))
}

func TestAllocateHoursAllCappedUnderBudget(t *testing.T) {
	weights := map[string]float64{"a": 10, "b": 10}
	caps := map[string]int{"a": 2, "b": 3}

	alloc := AllocateHours(weights, caps, 10)

	assert.Equal(t, 2, alloc["a"])
	assert.Equal(t, 3, alloc["b"])
	assert.Equal(t, 5, sumHours(alloc))
}

func TestAllocateHoursZeroWeightsSplitEvenly(t *testing.T) {
	weights := map[string]float64{"a": 0, "b": 0, "c": 0}

	alloc := AllocateHours(weights, nil, 9)

	for id, hours := range alloc {
		assert.Equal(t, 3, hours, "subject %s", id)
	}
}

func TestAllocateHoursZeroWeightsRemainderToFirstIDs(t *testing.T) {
	weights := map[string]float64{"a": 0, "b": 0, "c": 0}

	alloc := AllocateHours(weights, nil, 10)

	assert.Equal(t, 10, sumHours(alloc))
	assert.Equal(t, 4, alloc["a"])
}

func TestAllocateHoursDegenerateInputs(t *testing.T) {
	assert.Empty(t, AllocateHours(nil, nil, 10))
	assert.Empty(t, AllocateHours(map[string]float64{"a": 5}, nil, 0))
}

func TestAllocateHoursFewerHoursThanSubjects(t *testing.T) {
	weights := map[string]float64{"a": 10, "b": 20, "c": 30, "d": 40}

	alloc := AllocateHours(weights, nil, 2)

	assert.Equal(t, 2, sumHours(alloc))
	assert.Equal(t, 1, alloc["d"])
	assert.Equal(t, 1, alloc["c"])
}

func TestAllocateHoursDeterministic(t *testing.T) {
	weights := map[string]float64{"a": 7, "b": 11, "c": 13}

	first := AllocateHours(weights, nil, 12)
	second := AllocateHours(weights, nil, 12)

	assert.Equal(t, first, second)
}

func TestAllocateHoursNoNegativeAllocations(t *testing.T) {
	weights := map[string]float64{"a": 5, "b": 10, "c": 1}

	alloc := AllocateHours(weights, nil, 8)

	for id, hours := range alloc {
		assert.GreaterOrEqual(t, hours, 0, "subject %s", id)
	}
}
