package ranking

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTime renders ms as MM:SS. Minutes are not capped at 59.
func FormatTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatTimeDetailed renders ms as MM:SS.cc (hundredths).
func FormatTimeDetailed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%02d:%02d.%02d", ms/60000, (ms%60000)/1000, (ms%1000)/10)
}

// ParseTime reads MM:SS back into milliseconds.
func ParseTime(s string) (int64, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q is not MM:SS", ErrInvalidTime, s)
	}
	m, err := strconv.ParseInt(mm, 10, 64)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: minutes in %q", ErrInvalidTime, s)
	}
	sc, err := strconv.ParseInt(ss, 10, 64)
	if err != nil || sc < 0 || sc > 59 {
		return 0, fmt.Errorf("%w: seconds in %q", ErrInvalidTime, s)
	}
	return (m*60 + sc) * 1000, nil
}
