package profiler

import (
	"strconv"
)

func formatUint(v Nanoseconds) string {
	return strconv.FormatUint(v, 10)
}
