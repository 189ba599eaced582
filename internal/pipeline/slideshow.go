package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/MT7720/Editor-Autom-tico/internal/ffmpeg"
	"github.com/MT7720/Editor-Autom-tico/internal/planner"
	"github.com/MT7720/Editor-Autom-tico/internal/progress"
)

// Pass 1 synthesizes the silent base video and covers the first 80% of the
// reported progress; pass 2 is an ordinary single item on the base video.
const slideshowPassSplit = 0.8

// slideshow builds a narrated video from a folder of still images. The
// narration defines the duration, so it is mandatory here even though the
// single-item step treats it as optional.
func (r *run) slideshow(ctx context.Context) bool {
	p := r.params

	narrDur, err := r.probeDuration(ctx, p.NarrationPath)
	if err != nil {
		r.itemError("o slideshow exige uma narração válida: " + err.Error())
		return false
	}

	images, err := listByExt(p.MediaPath, imageExts)
	if err != nil || len(images) == 0 {
		r.itemError("nenhuma imagem compatível encontrada em " + p.MediaPath)
		return false
	}

	perImage := float64(p.ImageDuration)
	if perImage <= 0 {
		perImage = 5
	}
	slots := planner.ImageSlots(narrDur, perImage)

	manifestPath := filepath.Join(r.tempDir, "slideshow.txt")
	manifest := planner.ConcatManifest(images, slots, perImage)
	if err := os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		r.itemError("falha ao gravar a lista de imagens: " + err.Error())
		return false
	}
	r.log.Debug("manifesto do slideshow gravado",
		zap.Int("imagens", len(images)), zap.Int("slots", slots))

	r.sink.Send(progress.Status{
		Text:     fmt.Sprintf("Montando slideshow com %d imagens...", len(images)),
		Severity: progress.SeverityInfo,
	})

	baseVideo := filepath.Join(r.tempDir, "slideshow_base.mp4")
	args := planner.BuildSlideshowArgs(p, manifestPath, narrDur, baseVideo)
	outcome := r.runner.Execute(ctx, args, narrDur, "Gerando vídeo base",
		func(frac float64) {
			r.sink.Send(progress.Progress{Fraction: frac * slideshowPassSplit})
		})
	if outcome != ffmpeg.OutcomeSucceeded {
		return false
	}

	it := item{
		VideoPath:     baseVideo,
		NarrationPath: p.NarrationPath,
		MusicPath:     p.MusicPath,
		SubtitlePath:  p.SubtitlePath,
		OutputPath:    r.outputPath(),
	}
	return r.processItem(ctx, it, slideshowPassSplit, 1-slideshowPassSplit) == nil
}
