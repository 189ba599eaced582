// Package display renders the pipeline's progress stream on a terminal:
// severity-colored status lines, in-place progress bars, and small
// formatting helpers for the diagnostics report.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/MT7720/Editor-Autom-tico/internal/progress"
	"github.com/MT7720/Editor-Autom-tico/internal/term"
)

const barWidth = 30

// ConsoleSink renders pipeline messages for an interactive console. Progress
// updates redraw in place; status lines push the bar down. The final finish
// message is retained so the caller can pick the process exit code.
type ConsoleSink struct {
	out       io.Writer
	barActive bool

	finished bool
	success  bool
}

var _ progress.Sink = (*ConsoleSink)(nil)

// NewConsoleSink creates a sink writing to out.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

// Send implements progress.Sink.
func (s *ConsoleSink) Send(m progress.Message) {
	switch msg := m.(type) {
	case progress.Status:
		s.clearBar()
		fmt.Fprintf(s.out, "%s%s%s\n", severityColor(msg.Severity), msg.Text, term.NC)
	case progress.Progress:
		fmt.Fprintf(s.out, "\r%s %3.0f%%", RenderBar(msg.Fraction, barWidth), msg.Fraction*100)
		s.barActive = true
	case progress.BatchProgress:
		fmt.Fprintf(s.out, "\rLote: %s %3.0f%%", RenderBar(msg.Fraction, barWidth), msg.Fraction*100)
		s.barActive = true
	case progress.Finish:
		s.clearBar()
		s.finished = true
		s.success = msg.Success
	}
}

// Finished reports whether a finish message arrived and with what result.
func (s *ConsoleSink) Finished() (done, success bool) {
	return s.finished, s.success
}

// clearBar terminates an in-place bar line before ordinary output.
func (s *ConsoleSink) clearBar() {
	if s.barActive {
		fmt.Fprintln(s.out)
		s.barActive = false
	}
}

// RenderBar draws a fixed-width ASCII progress bar for frac in 0..1.
func RenderBar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	if filled < width {
		b.WriteByte('>')
		b.WriteString(strings.Repeat(" ", width-filled-1))
	}
	b.WriteByte(']')
	return b.String()
}

func severityColor(sev progress.Severity) string {
	switch sev {
	case progress.SeverityError:
		return term.Red
	case progress.SeverityWarning:
		return term.Yellow
	case progress.SeveritySuccess:
		return term.Green
	default:
		return ""
	}
}
