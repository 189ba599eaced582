package probe

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MT7720/Editor-Autom-tico/internal/logging"
)

// encoderCheckTimeout bounds the "ffmpeg -encoders" call.
const encoderCheckTimeout = 10 * time.Second

// DetectEncoders lists the hardware encoders the ffmpeg build at ffmpegPath
// exposes. libx264 is always assumed present since every usable build ships
// it; NVENC entries are added when the encoder list mentions them. Failures
// are soft: the software-only list is returned.
func DetectEncoders(ctx context.Context, ffmpegPath string, log *logging.Logger) []string {
	found := []string{"libx264"}
	if !isExecutableFile(ffmpegPath) {
		return found
	}

	ctx, cancel := context.WithTimeout(ctx, encoderCheckTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, ffmpegPath, "-encoders").Output()
	if err != nil {
		log.Warn("falha ao listar encoders do ffmpeg", zap.Error(err))
		return found
	}

	listing := string(out)
	if strings.Contains(listing, "h264_nvenc") {
		found = append(found, "h264_nvenc")
	}
	if strings.Contains(listing, "hevc_nvenc") {
		found = append(found, "hevc_nvenc")
	}
	log.Info("encoders detectados", zap.Strings("encoders", found))
	return found
}
