package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/MT7720/Editor-Autom-tico/internal/config"
	"github.com/MT7720/Editor-Autom-tico/internal/probe"
)

// ErrNoVideoStream is returned when the primary input has no video stream.
var ErrNoVideoStream = errors.New("nenhum stream de vídeo no arquivo principal")

// ItemSpec carries everything BuildItemPlan needs to decide how one output
// item is produced: the input paths, the probed properties of the primary
// video, and the probed durations of the optional audio tracks.
type ItemSpec struct {
	VideoPath     string
	NarrationPath string // Empty when no narration track.
	MusicPath     string // Empty when no music track.
	SubtitlePath  string // Empty when no burn-in.
	OutputPath    string

	Video             *probe.Properties // Probe of VideoPath; required.
	NarrationDuration float64           // Seconds; > 0 when narration is present.
	MusicDuration     float64           // Seconds; 0 when unknown (loop decision skipped).
}

// Plan is the fully assembled invocation for one output item. Args is built
// once and never mutated afterwards; Args[0] is the encoder executable.
type Plan struct {
	Args     []string
	Duration float64 // Expected output duration, drives progress reporting.
	Reencode bool
}

// BuildItemPlan derives all processing decisions for one item and assembles
// the complete command line.
//
// Re-encode trigger: direct stream copy is only possible when the source
// resolution already matches the target and no subtitles are burned in;
// either condition forces a full re-encode since copy mode cannot apply
// filters. Duration policy: the narration track defines the output duration
// when present, otherwise the source video's own duration; an unresolvable
// duration is a hard failure for the item.
func BuildItemPlan(p *config.Params, spec ItemSpec) (*Plan, error) {
	if spec.Video == nil || !spec.Video.HasVideo() {
		return nil, ErrNoVideoStream
	}

	duration := spec.NarrationDuration
	if duration <= 0 {
		d, err := spec.Video.Duration()
		if err != nil {
			return nil, fmt.Errorf("duração do vídeo principal: %w", err)
		}
		duration = d
	}

	targetW, targetH := ParseResolution(p.Resolution)
	srcW, srcH, haveDims := spec.Video.VideoDimensions()
	needsScale := !haveDims || srcW != targetW || srcH != targetH
	burnIn := spec.SubtitlePath != ""
	reencode := needsScale || burnIn

	hasNarration := spec.NarrationPath != ""
	hasMusic := spec.MusicPath != ""

	args := commandPreamble(p.FFmpegPath)

	// Inputs, fixed order: video, narration, music. A music track shorter
	// than the output is looped at the input level so amix never runs dry.
	args = append(args, "-i", spec.VideoPath)
	inputIdx := 1
	narrIdx, musicIdx := -1, -1
	if hasNarration {
		args = append(args, "-i", spec.NarrationPath)
		narrIdx = inputIdx
		inputIdx++
	}
	if hasMusic {
		if spec.MusicDuration > 0 && spec.MusicDuration < duration {
			args = append(args, "-stream_loop", "-1")
		}
		args = append(args, "-i", spec.MusicPath)
		musicIdx = inputIdx
	}

	graph := buildFilterGraph(p, filterInputs{
		narrIdx:    narrIdx,
		musicIdx:   musicIdx,
		needsScale: needsScale,
		targetW:    targetW,
		targetH:    targetH,
		subtitle:   spec.SubtitlePath,
		style:      p.Subtitle,
	})
	if len(graph.stages) > 0 {
		args = append(args, "-filter_complex", strings.Join(graph.stages, ";"))
	}

	// Output stream mapping: filtered label when a filter produced the
	// stream, raw stream specifier otherwise.
	args = append(args, "-map", graph.videoMap)
	if graph.audioMap != "" {
		args = append(args, "-map", graph.audioMap)
	}

	args = append(args, SelectCodec(p, reencode)...)
	if graph.audioFiltered {
		args = append(args, "-c:a", "aac", "-b:a", "192k")
	} else if graph.audioMap != "" {
		args = append(args, "-c:a", "copy")
	}

	args = append(args, "-t", formatSeconds(duration), "-shortest", spec.OutputPath)

	return &Plan{Args: args, Duration: duration, Reencode: reencode}, nil
}

// filterInputs bundles the decisions buildFilterGraph works from.
type filterInputs struct {
	narrIdx    int // -1 when absent.
	musicIdx   int // -1 when absent.
	needsScale bool
	targetW    int
	targetH    int
	subtitle   string
	style      config.SubtitleStyle
}

// filterGraph is the ordered filter stages plus the resulting stream maps.
type filterGraph struct {
	stages        []string
	videoMap      string
	audioMap      string // Empty when the output carries no audio mapping.
	audioFiltered bool
}

// buildFilterGraph assembles the named filter stages: per-track volume, the
// narration+music mix, scale+pad when the resolution changes, and subtitle
// burn-in. The mix follows the first input's duration with a 3-unit dropout
// transition so a looped music bed fades out with the narration.
func buildFilterGraph(p *config.Params, in filterInputs) filterGraph {
	g := filterGraph{videoMap: "0:v:0", audioMap: "0:a?"}

	switch {
	case in.narrIdx >= 0 && in.musicIdx >= 0:
		g.stages = append(g.stages,
			fmt.Sprintf("[%d:a]volume=%gdB[nar]", in.narrIdx, p.NarrationVolume),
			fmt.Sprintf("[%d:a]volume=%gdB[mus]", in.musicIdx, p.MusicVolume),
			"[nar][mus]amix=inputs=2:duration=first:dropout_transition=3[aout]",
		)
		g.audioMap = "[aout]"
		g.audioFiltered = true
	case in.narrIdx >= 0:
		g.stages = append(g.stages,
			fmt.Sprintf("[%d:a]volume=%gdB[aout]", in.narrIdx, p.NarrationVolume))
		g.audioMap = "[aout]"
		g.audioFiltered = true
	case in.musicIdx >= 0:
		g.stages = append(g.stages,
			fmt.Sprintf("[%d:a]volume=%gdB[aout]", in.musicIdx, p.MusicVolume))
		g.audioMap = "[aout]"
		g.audioFiltered = true
	}

	var video []string
	if in.needsScale {
		video = append(video, scalePadChain(in.targetW, in.targetH))
	}
	if in.subtitle != "" {
		video = append(video, fmt.Sprintf("subtitles=filename='%s':force_style='%s'",
			escapeFilterPath(in.subtitle), StyleString(in.style)))
	}
	if len(video) > 0 {
		g.stages = append(g.stages, "[0:v]"+strings.Join(video, ",")+"[vout]")
		g.videoMap = "[vout]"
	}

	return g
}

// scalePadChain fits the source into the target frame, letterboxing instead
// of distorting, and resets the sample aspect ratio.
func scalePadChain(w, h int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		w, h, w, h)
}

// commandPreamble is the shared head of every encoder invocation: quiet
// output plus the machine-readable progress channel on stdout.
func commandPreamble(ffmpegPath string) []string {
	return []string{
		ffmpegPath,
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-progress", "pipe:1", "-nostats",
	}
}

// escapeFilterPath escapes the characters the filter-graph parser treats
// specially inside quoted filenames (drive colons on Windows, quotes).
func escapeFilterPath(path string) string {
	r := strings.NewReplacer(`\`, `/`, `:`, `\:`, `'`, `\'`)
	return r.Replace(path)
}

// formatSeconds renders a duration for -t without trailing zeros ("10", "12.5").
func formatSeconds(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
