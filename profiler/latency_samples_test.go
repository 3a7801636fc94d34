package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewDefaultLatencySamples_HasDefaultCapacity(t *testing.T) {
	samples := NewDefaultLatencySamples()

	assert.Equal(t, DefaultMaxRuns, samples.Capacity())
}

func Test_NewLatencySamples_When_CapacityIsInvalid_ReturnsError(t *testing.T) {
	_, err := NewLatencySamples(0)

	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func Test_LatencySamples_SetAndGet(t *testing.T) {
	samples, err := NewLatencySamples(3)
	require.NoError(t, err)

	require.NoError(t, samples.Set(0, 11))
	require.NoError(t, samples.SetDuration(2, 33*time.Nanosecond))

	first, err := samples.Get(0)
	require.NoError(t, err)
	second, err := samples.Get(1)
	require.NoError(t, err)
	third, err := samples.Get(2)
	require.NoError(t, err)

	assert.Equal(t, Nanoseconds(11), first)
	assert.Zero(t, second)
	assert.Equal(t, Nanoseconds(33), third)
}

func Test_LatencySamples_When_RunIsOutOfRange_RejectsWrite(t *testing.T) {
	samples, err := NewLatencySamples(2)
	require.NoError(t, err)

	assert.ErrorIs(t, samples.Set(2, 1), ErrRunOutOfRange)
	assert.ErrorIs(t, samples.Set(-1, 1), ErrRunOutOfRange)

	_, getErr := samples.Get(5)
	assert.ErrorIs(t, getErr, ErrRunOutOfRange)
}

func Test_LatencySamples_When_DurationIsNegative_StoresZero(t *testing.T) {
	samples, err := NewLatencySamples(1)
	require.NoError(t, err)

	require.NoError(t, samples.SetDuration(0, -5*time.Millisecond))

	value, err := samples.Get(0)
	require.NoError(t, err)
	assert.Zero(t, value)
}

func Test_LatencySamples_Distribution_DoesNotMutateBuffer(t *testing.T) {
	// arrange
	samples := givenLatencySamples(t, 5, 3, 8, 1, 9, 2, 7, 4, 6, 0)

	// act
	distribution, err := samples.Distribution(10)

	// assert
	require.NoError(t, err)
	assert.Equal(t, Nanoseconds(2), distribution.Q1)
	values, err := samples.Values(10)
	require.NoError(t, err)
	assert.Equal(t, []Nanoseconds{5, 3, 8, 1, 9, 2, 7, 4, 6, 0}, values)
}

func Test_LatencySamples_Distribution_OnlyEvaluatesFirstCountSamples(t *testing.T) {
	samples := givenLatencySamples(t, 4, 2, 100, 100)

	distribution, err := samples.Distribution(2)

	require.NoError(t, err)
	assert.Equal(t, Nanoseconds(2), distribution.Min)
	assert.Equal(t, Nanoseconds(4), distribution.Max)
}

func Test_LatencySamples_SortInPlace_SortsBuffer(t *testing.T) {
	samples := givenLatencySamples(t, 3, 1, 2)

	_, err := samples.SortInPlace(3)
	require.NoError(t, err)

	values, err := samples.Values(3)
	require.NoError(t, err)
	assert.Equal(t, []Nanoseconds{1, 2, 3}, values)
}

func Test_LatencySamples_When_CountIsInvalid_ReturnsError(t *testing.T) {
	samples := givenLatencySamples(t, 1, 2)

	_, zeroErr := samples.Distribution(0)
	_, tooManyErr := samples.Values(3)

	assert.ErrorIs(t, zeroErr, ErrNoSamples)
	assert.ErrorIs(t, tooManyErr, ErrSampleCountOutOfRange)
}

func givenLatencySamples(t *testing.T, values ...Nanoseconds) *LatencySamples {
	t.Helper()

	samples, err := NewLatencySamples(len(values))
	require.NoError(t, err)

	for run, value := range values {
		require.NoError(t, samples.Set(run, value))
	}

	return samples
}
