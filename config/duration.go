// config/duration.go
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDurationFlexible accepts "90s"/"2m", numeric seconds ("120", 120,
// 1.5) or a time.Duration. Empty and unknown types yield def with no error;
// invalid or non-positive values yield def and an error.
func parseDurationFlexible(raw any, def time.Duration) (time.Duration, error) {
	switch t := raw.(type) {
	case time.Duration:
		return positive(t, def)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		if d, err := time.ParseDuration(s); err == nil {
			return positive(d, def)
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return positive(time.Duration(n)*time.Second, def)
		}
		return def, fmt.Errorf("cannot parse duration %q", s)
	case int:
		return positive(time.Duration(t)*time.Second, def)
	case int32:
		return positive(time.Duration(t)*time.Second, def)
	case int64:
		return positive(time.Duration(t)*time.Second, def)
	case float64:
		return positive(time.Duration(t*float64(time.Second)), def)
	default:
		return def, nil
	}
}

func positive(d, def time.Duration) (time.Duration, error) {
	if d <= 0 {
		return def, fmt.Errorf("duration must be >0")
	}
	return d, nil
}
