package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/MT7720/Editor-Autom-tico/internal/naming"
	"github.com/MT7720/Editor-Autom-tico/internal/progress"
)

// batch produces one output per narration file, pairing each with a randomly
// chosen video from the candidate pool. Item failures never stop the batch;
// the batch as a whole reports success once it has walked every item.
func (r *run) batch(ctx context.Context) bool {
	p := r.params

	audios, err := listByExt(p.AudioFolder, audioExts)
	if err != nil {
		r.itemError("não foi possível ler a pasta de áudios: " + err.Error())
		return false
	}
	if len(audios) == 0 {
		r.sink.Send(progress.Status{
			Text:     "Nenhum arquivo de áudio encontrado em " + p.AudioFolder + ".",
			Severity: progress.SeverityWarning,
		})
		r.sink.Send(progress.BatchProgress{Fraction: 1})
		return true
	}

	resolver := naming.NewCollisionResolver()
	total := len(audios)

	for i, audioPath := range audios {
		if ctx.Err() != nil {
			return false
		}
		r.sink.Send(progress.BatchProgress{Fraction: float64(i) / float64(total)})
		r.sink.Send(progress.Status{
			Text:     fmt.Sprintf("Item %d de %d: %s", i+1, total, filepath.Base(audioPath)),
			Severity: progress.SeverityInfo,
		})

		videoPath, ok := r.pickVideo(audioPath)
		if !ok {
			r.sink.Send(progress.Status{
				Text:     "Nenhum vídeo disponível para " + filepath.Base(audioPath) + ", item ignorado.",
				Severity: progress.SeverityWarning,
			})
			continue
		}

		it := item{
			VideoPath:     videoPath,
			NarrationPath: audioPath,
			SubtitlePath:  r.findSubtitle(audioPath),
			OutputPath: resolver.Resolve(audioPath,
				filepath.Join(p.OutputFolder, naming.OutputName(audioPath))),
		}

		if err := r.processItem(ctx, it, 0, 1); err != nil {
			if errors.Is(err, context.Canceled) {
				return false
			}
			r.log.Warn("item do lote falhou, continuando",
				zap.String("audio", audioPath), zap.Error(err))
		}
	}

	r.sink.Send(progress.BatchProgress{Fraction: 1})
	return true
}

// pickVideo selects one random candidate for the narration: from the
// language subfolder named by the filename suffix when it exists, otherwise
// from the parent video folder.
func (r *run) pickVideo(audioPath string) (string, bool) {
	dir := r.params.VideoFolder
	if lang := naming.LanguageCode(audioPath); lang != "" {
		for _, sub := range []string{lang, strings.ToLower(lang)} {
			if cand := filepath.Join(dir, sub); isDir(cand) {
				dir = cand
				break
			}
		}
	}

	videos, err := listByExt(dir, videoExts)
	if err != nil || len(videos) == 0 {
		return "", false
	}
	return videos[rand.Intn(len(videos))], true
}

// findSubtitle returns the like-named .srt for the narration, if the batch
// has a subtitle folder and the file exists.
func (r *run) findSubtitle(audioPath string) string {
	if r.params.SubtitleFolder == "" {
		return ""
	}
	cand := filepath.Join(r.params.SubtitleFolder, naming.Stem(audioPath)+".srt")
	if isFile(cand) {
		return cand
	}
	return ""
}
