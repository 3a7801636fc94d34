package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BuildRecordFilter_SanitizesNamesAndOrigins(t *testing.T) {
	filter := BuildRecordFilter().
		AnyNameOf("SendMessage", "", "RecvMessage", "SendMessage").
		AnyOriginOf("grpc.client", "grpc.client").
		Finalize()

	assert.Equal(t, []string{"RecvMessage", "SendMessage"}, filter.Names())
	assert.Equal(t, []string{"grpc.client"}, filter.Origins())
	assert.False(t, filter.IsEmpty())
}

func Test_BuildRecordFilter_StartedBetween_OrdersBounds(t *testing.T) {
	filter := BuildRecordFilter().StartedBetween(50, 10).Finalize()

	from, until, ok := filter.StartSpan()

	assert.True(t, ok)
	assert.Equal(t, Nanoseconds(10), from)
	assert.Equal(t, Nanoseconds(50), until)
}

func Test_RecordFilter_Apply(t *testing.T) {
	records := EventRecords{
		{Name: "SendMessage", Origin: "grpc.client", StartNS: 10},
		{Name: "RecvMessage", Origin: "grpc.client", StartNS: 20},
		{Name: "SendMessage", Origin: "grpc.server", StartNS: 30},
		{Name: "Pluck", Origin: "grpc.client", StartNS: 40},
	}

	tests := []struct {
		name     string
		filter   RecordFilter
		expected []Nanoseconds
	}{
		{
			name:     "empty filter",
			filter:   BuildRecordFilter().MatchingAnyRecord(),
			expected: []Nanoseconds{10, 20, 30, 40},
		},
		{
			name:     "by name",
			filter:   BuildRecordFilter().AnyNameOf("SendMessage").Finalize(),
			expected: []Nanoseconds{10, 30},
		},
		{
			name:     "by name and origin",
			filter:   BuildRecordFilter().AnyNameOf("SendMessage", "Pluck").AnyOriginOf("grpc.client").Finalize(),
			expected: []Nanoseconds{10, 40},
		},
		{
			name:     "by start span",
			filter:   BuildRecordFilter().StartedBetween(20, 30).Finalize(),
			expected: []Nanoseconds{20, 30},
		},
		{
			name:     "nothing matches",
			filter:   BuildRecordFilter().AnyOriginOf("unknown").Finalize(),
			expected: []Nanoseconds{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matching := tt.filter.Apply(records)

			starts := make([]Nanoseconds, 0, len(matching))
			for _, record := range matching {
				starts = append(starts, record.StartNS)
			}

			assert.Equal(t, tt.expected, starts)
		})
	}
}
