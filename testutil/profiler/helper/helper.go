package helper

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/call-profiler-go/profiler"
)

// GivenRecordsWereRecorded records count records named "<prefix>" with consecutive timestamps.
func GivenRecordsWereRecorded(t *testing.T, recorder profiler.Recorder, prefix string, count int) {
	t.Helper()

	for i := range count {
		start := profiler.Nanoseconds(i * 100)
		_, err := recorder.Record(prefix, start, start+50, "helper.go", "")
		require.NoError(t, err)
	}
}

// RecordConcurrently lets goroutines record perGoroutine records each and waits for all of them.
// It returns all errors the recorder returned.
func RecordConcurrently(recorder profiler.Recorder, goroutines int, perGoroutine int) []error {
	wg := sync.WaitGroup{}
	errs := make(chan error, goroutines*perGoroutine)

	for g := range goroutines {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()

			for i := range perGoroutine {
				start := profiler.Nanoseconds(g*perGoroutine + i)
				if _, err := recorder.Record("ConcurrentCall", start, start+1, "goroutine", ""); err != nil {
					errs <- err
				}
			}
		}(g)
	}

	wg.Wait()
	close(errs)

	collected := make([]error, 0)
	for err := range errs {
		collected = append(collected, err)
	}

	return collected
}

// TempFilePath returns a path for name inside a per-test temporary directory.
func TempFilePath(t *testing.T, name string) string {
	t.Helper()

	return filepath.Join(t.TempDir(), name)
}

// ReadLines returns all lines of the file at path.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	file, err := os.Open(path) //nolint:gosec
	require.NoError(t, err)
	defer func() {
		require.NoError(t, file.Close())
	}()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())

	return lines
}
