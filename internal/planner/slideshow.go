package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/MT7720/Editor-Autom-tico/internal/config"
)

// ImageSlots returns how many image displays are needed to cover the
// narration, given a fixed per-image duration. Always at least one.
func ImageSlots(narrationSeconds, perImageSeconds float64) int {
	if perImageSeconds <= 0 {
		return 1
	}
	slots := int(math.Ceil(narrationSeconds / perImageSeconds))
	if slots < 1 {
		slots = 1
	}
	return slots
}

// ConcatManifest renders a concat-demuxer manifest covering slots image
// displays. When fewer images than slots exist the set is cycled, truncated
// to the exact count. The final entry repeats the last image without a
// duration, which the concat demuxer requires for its duration semantics.
func ConcatManifest(images []string, slots int, perImageSeconds float64) string {
	if len(images) == 0 || slots < 1 {
		return ""
	}

	var b strings.Builder
	last := ""
	for i := 0; i < slots; i++ {
		img := images[i%len(images)]
		fmt.Fprintf(&b, "file '%s'\n", escapeManifestPath(img))
		fmt.Fprintf(&b, "duration %s\n", formatSeconds(perImageSeconds))
		last = img
	}
	fmt.Fprintf(&b, "file '%s'\n", escapeManifestPath(last))
	return b.String()
}

// BuildSlideshowArgs assembles the first-pass command that synthesizes the
// silent base video from the concat manifest at the target resolution. The
// second pass treats the result as an ordinary single item.
func BuildSlideshowArgs(p *config.Params, manifestPath string, duration float64, outputPath string) []string {
	w, h := ParseResolution(p.Resolution)

	args := commandPreamble(p.FFmpegPath)
	args = append(args,
		"-f", "concat", "-safe", "0",
		"-i", manifestPath,
		"-vf", scalePadChain(w, h)+",format=yuv420p",
		"-r", "30",
	)
	// The base video is always synthesized, never copied.
	args = append(args, SelectCodec(p, true)...)
	args = append(args, "-an", "-t", formatSeconds(duration), outputPath)
	return args
}

// escapeManifestPath escapes single quotes for concat-manifest entries.
func escapeManifestPath(path string) string {
	return strings.ReplaceAll(path, `'`, `'\''`)
}
