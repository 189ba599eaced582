// Package pipeline orchestrates the end-to-end runs: it validates the
// parameters, dispatches by mode, owns the run's temporary directory, and
// guarantees the sink sees exactly one final status and one finish message
// no matter how the run ends.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MT7720/Editor-Autom-tico/internal/config"
	"github.com/MT7720/Editor-Autom-tico/internal/ffmpeg"
	"github.com/MT7720/Editor-Autom-tico/internal/logging"
	"github.com/MT7720/Editor-Autom-tico/internal/planner"
	"github.com/MT7720/Editor-Autom-tico/internal/probe"
	"github.com/MT7720/Editor-Autom-tico/internal/progress"
)

// errEncodeFailed marks an item whose encode subprocess exited non-zero. The
// runner already reported the diagnostics through the sink.
var errEncodeFailed = errors.New("falha na codificação")

// Pipeline is the long-lived orchestrator. One instance serves the whole
// application; each Process call is an independent run.
type Pipeline struct {
	log      *logging.Logger
	registry *ffmpeg.Registry
}

// New creates a pipeline wired to the shared process registry.
func New(log *logging.Logger, registry *ffmpeg.Registry) *Pipeline {
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{log: log, registry: registry}
}

// Process executes one full run. It never returns an error: every result,
// including validation failures and internal faults, reaches the caller
// through the sink, terminated by exactly one finish message. The run's
// temporary directory is removed on every exit path.
func (pl *Pipeline) Process(ctx context.Context, p *config.Params, sink progress.Sink) {
	if sink == nil {
		sink = progress.NopSink{}
	}

	runID := uuid.NewString()[:8]
	log := pl.log.With(zap.String("run", runID))

	finished := false
	finish := func(success bool, text string, sev progress.Severity) {
		if finished {
			return
		}
		finished = true
		sink.Send(progress.Status{Text: text, Severity: sev})
		sink.Send(progress.Finish{Success: success})
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("falha interna inesperada", zap.Any("panic", rec), zap.Stack("stack"))
			finish(false, "Erro interno inesperado durante o processamento.", progress.SeverityError)
		}
	}()

	if err := p.Validate(); err != nil {
		log.Warn("parâmetros rejeitados", zap.Error(err))
		finish(false, "Parâmetros inválidos: "+err.Error(), progress.SeverityError)
		return
	}

	tempDir, err := os.MkdirTemp("", "autoeditor-"+runID+"-")
	if err != nil {
		log.Error("falha ao criar diretório temporário", zap.Error(err))
		finish(false, "Não foi possível criar o diretório temporário.", progress.SeverityError)
		return
	}
	defer os.RemoveAll(tempDir)

	r := &run{
		params:  p,
		sink:    sink,
		log:     log,
		prober:  probe.NewProber(p.FFmpegPath, log),
		runner:  ffmpeg.NewRunner(pl.registry, sink, log),
		tempDir: tempDir,
	}

	log.Info("iniciando processamento", zap.String("modo", string(p.Mode)))

	var ok bool
	switch p.Mode {
	case config.ModeSingle:
		ok = r.single(ctx)
	case config.ModeSlideshow:
		ok = r.slideshow(ctx)
	case config.ModeBatch:
		ok = r.batch(ctx)
	default:
		finish(false, fmt.Sprintf("Modo de operação desconhecido: %q.", p.Mode), progress.SeverityError)
		return
	}

	if ctx.Err() != nil {
		finish(false, "Processamento cancelado pelo usuário.", progress.SeverityWarning)
		return
	}
	if ok {
		finish(true, "Processamento concluído com sucesso!", progress.SeveritySuccess)
	} else {
		finish(false, "O processamento falhou. Verifique as mensagens acima.", progress.SeverityError)
	}
}

// run carries the per-invocation state shared by the orchestrators.
type run struct {
	params  *config.Params
	sink    progress.Sink
	log     *logging.Logger
	prober  *probe.Prober
	runner  *ffmpeg.Runner
	tempDir string
}

// item is one concrete output the shared step produces.
type item struct {
	VideoPath     string
	NarrationPath string
	MusicPath     string
	SubtitlePath  string
	OutputPath    string
}

// processItem runs the full single-item sequence for it: probe, plan,
// encode. Fractional progress is mapped into [base, base+span] so callers
// can embed the item in a larger run. Returns nil on success,
// context.Canceled when cancellation interrupted the item, and a descriptive
// error otherwise; error statuses have already been sent through the sink.
func (r *run) processItem(ctx context.Context, it item, base, span float64) error {
	if ctx.Err() != nil {
		return context.Canceled
	}

	props := r.prober.Probe(ctx, it.VideoPath)
	if props == nil {
		return r.itemError("não foi possível analisar o vídeo: " + it.VideoPath)
	}

	spec := planner.ItemSpec{
		VideoPath:     it.VideoPath,
		NarrationPath: it.NarrationPath,
		MusicPath:     it.MusicPath,
		SubtitlePath:  it.SubtitlePath,
		OutputPath:    it.OutputPath,
		Video:         props,
	}

	if it.NarrationPath != "" {
		d, err := r.probeDuration(ctx, it.NarrationPath)
		if err != nil {
			return r.itemError("não foi possível obter a duração da narração: " + err.Error())
		}
		spec.NarrationDuration = d
	}
	if it.MusicPath != "" {
		// Music duration only drives the loop decision; unknown is fine.
		if d, err := r.probeDuration(ctx, it.MusicPath); err == nil {
			spec.MusicDuration = d
		}
	}

	plan, err := planner.BuildItemPlan(r.params, spec)
	if err != nil {
		return r.itemError(err.Error())
	}
	r.log.Debug("plano montado",
		zap.String("saida", it.OutputPath),
		zap.Bool("reencode", plan.Reencode),
		zap.Float64("duracao", plan.Duration))

	outcome := r.runner.Execute(ctx, plan.Args, plan.Duration, "Codificando "+filepath.Base(it.OutputPath),
		func(frac float64) {
			r.sink.Send(progress.Progress{Fraction: base + span*frac})
		})
	switch outcome {
	case ffmpeg.OutcomeSucceeded:
		return nil
	case ffmpeg.OutcomeCancelled:
		return context.Canceled
	default:
		return errEncodeFailed
	}
}

// probeDuration probes path and extracts its duration.
func (r *run) probeDuration(ctx context.Context, path string) (float64, error) {
	props := r.prober.Probe(ctx, path)
	if props == nil {
		return 0, fmt.Errorf("análise de %s indisponível", filepath.Base(path))
	}
	return props.Duration()
}

// itemError reports an item-level failure through the sink and returns it.
func (r *run) itemError(text string) error {
	r.sink.Send(progress.Status{Text: text, Severity: progress.SeverityError})
	return errors.New(text)
}

// outputPath resolves the single/slideshow output location.
func (r *run) outputPath() string {
	name := r.params.OutputName
	if name == "" {
		name = "video_final.mp4"
	}
	return filepath.Join(r.params.OutputFolder, name)
}
