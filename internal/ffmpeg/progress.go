package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// parseOutTime extracts the elapsed output time from one "-progress" line.
// ffmpeg reports both out_time_us and out_time_ms, and both carry
// microseconds (the _ms name is historical).
func parseOutTime(line string) (time.Duration, bool) {
	key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		return time.Duration(n) * time.Microsecond, true
	}
	return 0, false
}

// progressKeys are the key=value fields the -progress channel emits. They
// are bookkeeping, not diagnostics, and are kept out of the error snippet.
var progressKeys = map[string]bool{
	"frame":       true,
	"fps":         true,
	"bitrate":     true,
	"total_size":  true,
	"out_time":    true,
	"out_time_us": true,
	"out_time_ms": true,
	"dup_frames":  true,
	"drop_frames": true,
	"speed":       true,
	"progress":    true,
}

// isProgressKey reports whether line is part of the -progress stream.
func isProgressKey(line string) bool {
	key, _, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return false
	}
	if progressKeys[key] {
		return true
	}
	// Per-stream quality fields look like stream_0_0_q.
	return strings.HasPrefix(key, "stream_") && strings.HasSuffix(key, "_q")
}
