package profiler

import (
	"cmp"
	"slices"
)

// Sample is one latency value together with the run it was measured in.
type Sample struct {
	Run   int
	Value Nanoseconds
}

// Distribution summarizes a set of latency samples.
//
// The quartile positions are taken from the sorted samples at fixed indexes:
//
//	Q1:     count/4
//	Median: count/2
//	Q3:     count/4 + count/2
//
// Q3 is the sum of the Q1 and Median indexes, not 3*count/4. The two differ for some counts:
// for count = 7 Q3 is taken from index 4 where 3*count/4 would give index 5.
// All benchmark reports use this Q3 index, so it must not be changed.
type Distribution struct {
	Count       int
	Min         Nanoseconds
	Q1          Nanoseconds
	Median      Nanoseconds
	Q3          Nanoseconds
	Max         Nanoseconds
	Q1Index     int
	MedianIndex int
	Q3Index     int

	// Sorted holds all samples in ascending order, equal values keep their run order.
	Sorted []Sample
}

// ComputeDistribution sorts a copy of samples and returns its Distribution.
// The caller's slice is not modified.
func ComputeDistribution(samples []Nanoseconds) (Distribution, error) {
	if len(samples) == 0 {
		return Distribution{}, ErrNoSamples
	}

	sorted := make([]Sample, len(samples))
	for run, value := range samples {
		sorted[run] = Sample{Run: run, Value: value}
	}

	slices.SortStableFunc(sorted, func(a, b Sample) int {
		return cmp.Compare(a.Value, b.Value)
	})

	return buildDistribution(sorted), nil
}

// ComputeDistributionInPlace sorts samples itself in ascending order and returns its Distribution.
func ComputeDistributionInPlace(samples []Nanoseconds) (Distribution, error) {
	distribution, err := ComputeDistribution(samples)
	if err != nil {
		return Distribution{}, err
	}

	for i, sample := range distribution.Sorted {
		samples[i] = sample.Value
	}

	return distribution, nil
}

// SortedValues returns only the values of Sorted.
func (d Distribution) SortedValues() []Nanoseconds {
	values := make([]Nanoseconds, len(d.Sorted))
	for i, sample := range d.Sorted {
		values[i] = sample.Value
	}

	return values
}

func buildDistribution(sorted []Sample) Distribution {
	count := len(sorted)
	q1Index := count / 4
	medianIndex := count / 2
	q3Index := q1Index + medianIndex

	return Distribution{
		Count:       count,
		Min:         sorted[0].Value,
		Q1:          sorted[q1Index].Value,
		Median:      sorted[medianIndex].Value,
		Q3:          sorted[q3Index].Value,
		Max:         sorted[count-1].Value,
		Q1Index:     q1Index,
		MedianIndex: medianIndex,
		Q3Index:     q3Index,
		Sorted:      sorted,
	}
}
