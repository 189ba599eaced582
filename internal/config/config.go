// Package config holds the flat parameter structure handed to the media
// pipeline: operation mode, input/output paths, encoder preferences, volume
// levels, and subtitle styling. Params is assembled by the caller (CLI flags
// here, a GUI elsewhere), validated once at the pipeline boundary, and
// treated as immutable for the duration of one run.
package config

import (
	"errors"
	"fmt"
	"os"
)

// Mode selects which workflow the pipeline runs.
type Mode string

const (
	ModeSingle    Mode = "single"    // One video plus optional narration/music/subtitles.
	ModeSlideshow Mode = "slideshow" // Image folder synthesized into a narrated video.
	ModeBatch     Mode = "batch"     // Many narration files against a pool of videos.
)

// ColorMode controls ANSI color output on the console sink.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Codec preference labels as shown to the user. AvailableEncoders constrains
// what the planner may actually pick.
const (
	CodecAuto      = "Automático"
	CodecCPU       = "CPU (libx264)"
	CodecNVENCH264 = "GPU (NVENC H.264)"
	CodecNVENCHEVC = "GPU (NVENC HEVC)"
)

// SubtitleStyle describes how subtitles are rendered when burned in. The
// position map travels with the style so callers can remap position labels
// without touching the formatter.
type SubtitleStyle struct {
	FontSize     int
	TextColor    string // "#RRGGBB"
	OutlineColor string // "#RRGGBB"
	Bold         bool
	Italic       bool
	Position     string         // Key into PositionMap.
	FontFile     string         // Optional .ttf/.otf path; base name becomes the font name.
	PositionMap  map[string]int // Position label → ASS numpad alignment code.
}

// Params is the complete, fully-typed parameter set for one pipeline run.
// Exactly one of the mode-specific path groups must be populated, consistent
// with Mode; Validate enforces this at the boundary.
type Params struct {
	FFmpegPath string
	Mode       Mode

	// Single-item and slideshow inputs. MediaPath is the primary video file
	// (single) or the image folder (slideshow).
	MediaPath     string
	NarrationPath string
	MusicPath     string
	SubtitlePath  string

	// Batch inputs.
	VideoFolder    string // Parent folder of candidate videos (may contain language subfolders).
	AudioFolder    string // Narration files, one output per file.
	SubtitleFolder string // Optional; like-named .srt files are picked up.

	// Output.
	OutputFolder string
	OutputName   string // Single/slideshow only; batch derives names from audio files.

	// Video settings.
	Resolution        string // "1080p (1920x1080)" form; planner parses the dimensions.
	Codec             string // One of the Codec* labels.
	AvailableEncoders []string

	// Audio settings (dB, signed).
	NarrationVolume float64
	MusicVolume     float64

	Subtitle SubtitleStyle

	// Slideshow settings.
	ImageDuration int // Seconds each image is displayed.
	Transition    string
	Motion        string

	// Console output.
	ColorMode ColorMode
	Verbose   bool

	// CheckOnly runs system diagnostics instead of the pipeline (CLI --check).
	CheckOnly bool
}

// DefaultPositionMap returns the nine compass positions and their ASS numpad
// alignment codes. Keys match the labels the GUI presents.
func DefaultPositionMap() map[string]int {
	return map[string]int{
		"Inferior Central":  2,
		"Inferior Esquerda": 1,
		"Inferior Direita":  3,
		"Meio Central":      5,
		"Meio Esquerda":     4,
		"Meio Direita":      6,
		"Superior Central":  8,
		"Superior Esquerda": 7,
		"Superior Direita":  9,
	}
}

// DefaultParams returns a Params with every field defaulted. Callers
// overwrite what they need and pass the result to Validate.
func DefaultParams() Params {
	return Params{
		Mode:            ModeSingle,
		OutputName:      "video_final.mp4",
		Resolution:      "1080p (1920x1080)",
		Codec:           CodecAuto,
		NarrationVolume: 0,
		MusicVolume:     -15,
		Subtitle: SubtitleStyle{
			FontSize:     28,
			TextColor:    "#FFFFFF",
			OutlineColor: "#000000",
			Bold:         true,
			Italic:       false,
			Position:     "Inferior Central",
			PositionMap:  DefaultPositionMap(),
		},
		ImageDuration: 5,
		Transition:    "fade",
		Motion:        "Zoom In",
		ColorMode:     ColorAuto,
	}
}

// Validation errors returned by Validate.
var (
	ErrNoFFmpeg      = errors.New("caminho do ffmpeg inválido")
	ErrNoOutput      = errors.New("pasta de saída inválida")
	ErrInvalidInputs = errors.New("entradas inconsistentes com o modo de operação")
)

// Validate checks the boundary invariants: ffmpeg path points at a file, the
// output folder exists, and the path group matching Mode is populated.
// Mode-specific file readability is re-checked per item inside the pipeline.
func (p *Params) Validate() error {
	if !isFile(p.FFmpegPath) {
		return fmt.Errorf("%w: %q", ErrNoFFmpeg, p.FFmpegPath)
	}
	if !isDir(p.OutputFolder) {
		return fmt.Errorf("%w: %q", ErrNoOutput, p.OutputFolder)
	}

	switch p.Mode {
	case ModeSingle:
		if !isFile(p.MediaPath) {
			return fmt.Errorf("%w: arquivo de vídeo principal %q", ErrInvalidInputs, p.MediaPath)
		}
	case ModeSlideshow:
		if !isDir(p.MediaPath) {
			return fmt.Errorf("%w: pasta de imagens %q", ErrInvalidInputs, p.MediaPath)
		}
	case ModeBatch:
		if !isDir(p.VideoFolder) || !isDir(p.AudioFolder) {
			return fmt.Errorf("%w: pastas de lote %q / %q", ErrInvalidInputs, p.VideoFolder, p.AudioFolder)
		}
	default:
		return fmt.Errorf("%w: modo %q", ErrInvalidInputs, p.Mode)
	}
	return nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
