// Package probe inspects media files through ffprobe and detects which
// encoders the configured ffmpeg build supports. Probing is read-only
// metadata inspection; failures are soft and callers decide whether an
// unavailable probe is fatal.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/MT7720/Editor-Autom-tico/internal/logging"
)

// probeTimeout bounds a single ffprobe invocation.
const probeTimeout = 15 * time.Second

// Prober locates ffprobe next to the configured ffmpeg executable and runs
// metadata inspections against it.
type Prober struct {
	ffmpegPath string
	log        *logging.Logger
}

// NewProber creates a Prober for the ffmpeg binary at ffmpegPath.
func NewProber(ffmpegPath string, log *logging.Logger) *Prober {
	return &Prober{ffmpegPath: ffmpegPath, log: log}
}

// Probe runs ffprobe against path and returns the parsed report. It never
// returns an error: any failure (missing ffprobe, missing file, timeout,
// bad JSON) is logged as a warning and reported as nil.
func (p *Prober) Probe(ctx context.Context, path string) *Properties {
	ffprobe := p.ffprobePath()
	if !isExecutableFile(ffprobe) {
		p.log.Warn("ffprobe não encontrado ao lado do ffmpeg", zap.String("esperado", ffprobe))
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		p.log.Warn("arquivo de mídia inacessível", zap.String("arquivo", path), zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		p.log.Warn("ffprobe falhou", zap.String("arquivo", path), zap.Error(err))
		return nil
	}

	props, err := ParseJSON(out)
	if err != nil {
		p.log.Warn("saída do ffprobe inválida", zap.String("arquivo", path), zap.Error(err))
		return nil
	}
	return props
}

// ParseJSON converts a raw ffprobe JSON report into Properties. Exported for
// testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Properties, error) {
	var props Properties
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return &props, nil
}

func (p *Prober) ffprobePath() string {
	return FFprobePath(p.ffmpegPath)
}

// FFprobePath derives the ffprobe location from the ffmpeg path: same
// directory, platform-appropriate executable name.
func FFprobePath(ffmpegPath string) string {
	name := "ffprobe"
	if runtime.GOOS == "windows" {
		name = "ffprobe.exe"
	}
	return filepath.Join(filepath.Dir(ffmpegPath), name)
}

func isExecutableFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
