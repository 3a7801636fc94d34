package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ComputeDistribution_ReturnsQuartilesOfSortedCopy(t *testing.T) {
	// arrange
	samples := []Nanoseconds{5, 3, 8, 1, 9, 2, 7, 4, 6, 0}
	original := append([]Nanoseconds(nil), samples...)

	// act
	distribution, err := ComputeDistribution(samples)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 10, distribution.Count)
	assert.Equal(t, Nanoseconds(0), distribution.Min)
	assert.Equal(t, Nanoseconds(2), distribution.Q1)
	assert.Equal(t, Nanoseconds(5), distribution.Median)
	assert.Equal(t, Nanoseconds(7), distribution.Q3)
	assert.Equal(t, Nanoseconds(9), distribution.Max)
	assert.Equal(t, []Nanoseconds{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, distribution.SortedValues())
	assert.Equal(t, original, samples, "caller's samples must not be reordered")
}

func Test_ComputeDistribution_Q3IndexIsSumOfQ1AndMedianIndexes(t *testing.T) {
	tests := []struct {
		count       int
		q1Index     int
		medianIndex int
		q3Index     int
	}{
		{count: 1, q1Index: 0, medianIndex: 0, q3Index: 0},
		{count: 2, q1Index: 0, medianIndex: 1, q3Index: 1},
		{count: 3, q1Index: 0, medianIndex: 1, q3Index: 1},
		{count: 7, q1Index: 1, medianIndex: 3, q3Index: 4},
		{count: 10, q1Index: 2, medianIndex: 5, q3Index: 7},
		{count: 1000, q1Index: 250, medianIndex: 500, q3Index: 750},
	}

	for _, tt := range tests {
		t.Run("count "+formatUint(Nanoseconds(tt.count)), func(t *testing.T) {
			samples := make([]Nanoseconds, tt.count)
			for i := range samples {
				samples[i] = Nanoseconds(tt.count - i)
			}

			distribution, err := ComputeDistribution(samples)

			require.NoError(t, err)
			assert.Equal(t, tt.q1Index, distribution.Q1Index)
			assert.Equal(t, tt.medianIndex, distribution.MedianIndex)
			assert.Equal(t, tt.q3Index, distribution.Q3Index)
			assert.Equal(t, distribution.Sorted[tt.q3Index].Value, distribution.Q3)
		})
	}
}

func Test_ComputeDistribution_When_ValuesAreEqual_KeepsRunOrder(t *testing.T) {
	samples := []Nanoseconds{7, 3, 7, 3, 7}

	distribution, err := ComputeDistribution(samples)

	require.NoError(t, err)
	assert.Equal(t,
		[]Sample{{Run: 1, Value: 3}, {Run: 3, Value: 3}, {Run: 0, Value: 7}, {Run: 2, Value: 7}, {Run: 4, Value: 7}},
		distribution.Sorted,
	)
}

func Test_ComputeDistribution_When_NoSamples_ReturnsError(t *testing.T) {
	_, err := ComputeDistribution(nil)

	assert.ErrorIs(t, err, ErrNoSamples)
}

func Test_ComputeDistributionInPlace_SortsCallerSamples(t *testing.T) {
	samples := []Nanoseconds{5, 3, 8, 1, 9, 2, 7, 4, 6, 0}

	distribution, err := ComputeDistributionInPlace(samples)

	require.NoError(t, err)
	assert.Equal(t, []Nanoseconds{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, samples)
	assert.Equal(t, Nanoseconds(7), distribution.Q3)
}
