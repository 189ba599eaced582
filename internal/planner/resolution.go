// Package planner holds the pure decision layer of the pipeline: resolution
// and codec policy, subtitle styling, filter-graph construction, and full
// command assembly for one output item. Nothing here touches the filesystem
// or spawns processes, which keeps every decision table-testable.
package planner

import (
	"regexp"
	"strconv"
)

// Fallback target dimensions when the resolution string is unparsable.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Resolution strings follow "<label> (<W>x<H>)", e.g. "720p (1280x720)".
var resolutionRe = regexp.MustCompile(`\((\d+)x(\d+)\)`)

// ParseResolution extracts the target dimensions from a resolution label.
// Unparsable input falls back to 1920x1080; this is a deliberate safe
// default, not an error.
func ParseResolution(s string) (w, h int) {
	m := resolutionRe.FindStringSubmatch(s)
	if m == nil {
		return DefaultWidth, DefaultHeight
	}
	w, _ = strconv.Atoi(m[1])
	h, _ = strconv.Atoi(m[2])
	if w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}
