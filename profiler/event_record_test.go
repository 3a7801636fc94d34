package profiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildEventRecord_ComputesDuration(t *testing.T) {
	record, err := BuildEventRecord("SendMessage", 100, 350, "client_unary_call.go", "serialize request")

	require.NoError(t, err)
	assert.Equal(t, "SendMessage", record.Name)
	assert.Equal(t, "client_unary_call.go", record.Origin)
	assert.Equal(t, "serialize request", record.Description)
	assert.Equal(t, Nanoseconds(100), record.StartNS)
	assert.Equal(t, Nanoseconds(350), record.EndNS)
	assert.Equal(t, Nanoseconds(250), record.DurationNS)
	assert.False(t, record.ClockAnomaly())
}

func Test_BuildEventRecord_When_EndIsBeforeStart_DurationWrapsAround(t *testing.T) {
	record, err := BuildEventRecord("X", 10, 5, "", "")

	require.NoError(t, err)
	assert.Equal(t, Nanoseconds(math.MaxUint64-4), record.DurationNS) // 2^64 - 5
	assert.Equal(t, "18446744073709551611", formatUint(record.DurationNS))
	assert.True(t, record.ClockAnomaly())
}

func Test_BuildEventRecord_When_StartEqualsEnd_DurationIsZero(t *testing.T) {
	record, err := BuildEventRecordWithoutMetadata("Pluck", 42, 42)

	require.NoError(t, err)
	assert.Zero(t, record.DurationNS)
	assert.Empty(t, record.Origin)
	assert.Empty(t, record.Description)
	assert.False(t, record.ClockAnomaly())
}

func Test_BuildEventRecord_When_NameIsEmpty_ReturnsError(t *testing.T) {
	_, err := BuildEventRecord("", 1, 2, "origin", "desc")

	assert.ErrorIs(t, err, ErrEmptyRecordName)
}

func Test_EventRecord_Duration(t *testing.T) {
	record, err := BuildEventRecordWithoutMetadata("CreateCall", 1_000, 3_500)

	require.NoError(t, err)
	assert.Equal(t, int64(2_500), record.Duration().Nanoseconds())
}
