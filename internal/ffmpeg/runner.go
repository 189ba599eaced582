package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MT7720/Editor-Autom-tico/internal/logging"
	"github.com/MT7720/Editor-Autom-tico/internal/progress"
)

// Outcome classifies how one encoder run ended.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

const (
	// pollInterval bounds how often cancellation is checked while the
	// subprocess runs.
	pollInterval = 100 * time.Millisecond

	// reapTimeout bounds how long a cancelled process may take to exit
	// after the graceful signal before it is killed outright.
	reapTimeout = 10 * time.Second

	// tailLines is how many diagnostic lines are kept for the error snippet.
	tailLines = 8

	// statusStep is the minimum percentage-point change between two
	// textual progress updates. Fractional progress is not throttled.
	statusStep = 0.05
)

// Runner executes one encoder command at a time, translating the raw
// -progress stream into fractional progress plus throttled status text.
type Runner struct {
	registry *Registry
	sink     progress.Sink
	log      *logging.Logger
}

// NewRunner wires a runner to the shared registry and the caller's sink.
func NewRunner(registry *Registry, sink progress.Sink, log *logging.Logger) *Runner {
	if sink == nil {
		sink = progress.NopSink{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{registry: registry, sink: sink, log: log}
}

// Execute runs args (args[0] is the executable) to completion, cancellation,
// or failure. expectedDuration in seconds scales the out_time readings into a
// 0..1 fraction delivered through onProgress; label prefixes the status text.
//
// The subprocess is registered for the whole window between spawn and reap,
// so a concurrent TerminateAll always sees it. Cancellation is cooperative:
// the context is polled, the process gets a graceful stop, and the wait for
// its exit is bounded before escalating to a kill.
func (r *Runner) Execute(ctx context.Context, args []string, expectedDuration float64, label string, onProgress func(float64)) Outcome {
	if len(args) == 0 {
		r.sink.Send(progress.Status{Text: label + ": comando vazio", Severity: progress.SeverityError})
		return OutcomeFailed
	}
	if ctx.Err() != nil {
		return OutcomeCancelled
	}

	cmd := exec.Command(args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return r.spawnFailure(label, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return r.spawnFailure(label, err)
	}
	if err := cmd.Start(); err != nil {
		return r.spawnFailure(label, err)
	}

	r.registry.Register(cmd.Process)
	defer r.registry.Unregister(cmd.Process.Pid)
	r.log.Debug("processo iniciado",
		zap.Int("pid", cmd.Process.Pid), zap.String("etapa", label))

	lines := make(chan string, 256)
	quit := make(chan struct{})
	var readers sync.WaitGroup
	readers.Add(2)
	go drainLines(stdout, lines, quit, &readers)
	go drainLines(stderr, lines, quit, &readers)

	// Wait must not run before both pipes are fully consumed.
	waitCh := make(chan error, 1)
	go func() {
		readers.Wait()
		waitCh <- cmd.Wait()
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var (
		tail       []string
		lastStatus = -1.0
		cancelled  bool
		waitErr    error
		reaped     bool
	)

	handle := func(line string) {
		if elapsed, ok := parseOutTime(line); ok {
			if expectedDuration <= 0 {
				return
			}
			frac := elapsed.Seconds() / expectedDuration
			if frac < 0 {
				frac = 0
			}
			if frac > 1 {
				frac = 1
			}
			if onProgress != nil {
				onProgress(frac)
			}
			if frac-lastStatus >= statusStep {
				lastStatus = frac
				r.sink.Send(progress.Status{
					Text:     fmt.Sprintf("%s: %d%%", label, int(frac*100)),
					Severity: progress.SeverityInfo,
				})
			}
			return
		}
		if isProgressKey(line) || strings.TrimSpace(line) == "" {
			return
		}
		tail = append(tail, line)
		if len(tail) > tailLines {
			tail = tail[1:]
		}
	}

loop:
	for {
		select {
		case line := <-lines:
			handle(line)
		case waitErr = <-waitCh:
			reaped = true
			break loop
		case <-ticker.C:
			if cancelled || ctx.Err() == nil {
				continue
			}
			cancelled = true
			r.log.Info("cancelamento solicitado, encerrando processo",
				zap.Int("pid", cmd.Process.Pid))
			_ = terminate(cmd.Process)
			close(quit)
			break loop
		}
	}

	if !reaped {
		select {
		case waitErr = <-waitCh:
		case <-time.After(reapTimeout):
			_ = cmd.Process.Kill()
			waitErr = <-waitCh
		}
	} else {
		close(quit)
		// Pipes are closed at this point, flush what the loop did not see.
		for {
			select {
			case line := <-lines:
				handle(line)
			default:
				return r.classify(label, waitErr, cancelled, tail, onProgress)
			}
		}
	}

	return r.classify(label, waitErr, cancelled, tail, onProgress)
}

// classify turns the reaped process state into the run outcome and the
// matching sink traffic.
func (r *Runner) classify(label string, waitErr error, cancelled bool, tail []string, onProgress func(float64)) Outcome {
	if cancelled {
		r.sink.Send(progress.Status{Text: label + ": cancelado", Severity: progress.SeverityWarning})
		return OutcomeCancelled
	}
	if waitErr != nil {
		snippet := strings.Join(tail, " | ")
		r.log.Error("processo falhou",
			zap.String("etapa", label), zap.Error(waitErr), zap.String("saida", snippet))
		text := label + ": falha na codificação"
		if snippet != "" {
			text += " (" + snippet + ")"
		}
		r.sink.Send(progress.Status{Text: text, Severity: progress.SeverityError})
		return OutcomeFailed
	}
	if onProgress != nil {
		onProgress(1.0)
	}
	r.sink.Send(progress.Status{Text: label + ": concluído", Severity: progress.SeveritySuccess})
	return OutcomeSucceeded
}

// spawnFailure reports a process that never started.
func (r *Runner) spawnFailure(label string, err error) Outcome {
	r.log.Error("falha ao iniciar processo", zap.String("etapa", label), zap.Error(err))
	r.sink.Send(progress.Status{
		Text:     fmt.Sprintf("%s: falha ao iniciar o ffmpeg: %v", label, err),
		Severity: progress.SeverityError,
	})
	return OutcomeFailed
}

// drainLines forwards scanner lines until the reader closes. After quit the
// pipe is still consumed, so a dying subprocess never blocks on a full pipe,
// but the lines are dropped.
func drainLines(rd io.Reader, lines chan<- string, quit <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-quit:
		}
	}
}
