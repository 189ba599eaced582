package ffmpeg

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/MT7720/Editor-Autom-tico/internal/logging"
	"github.com/MT7720/Editor-Autom-tico/internal/progress"
)

// --- progress line parsing ---

func TestParseOutTime(t *testing.T) {
	tests := []struct {
		line string
		want time.Duration
		ok   bool
	}{
		{"out_time_us=5000000", 5 * time.Second, true},
		{"out_time_ms=5000000", 5 * time.Second, true}, // _ms carries microseconds too
		{"out_time_us=0", 0, true},
		{" out_time_us=1500000 ", 1500 * time.Millisecond, true},
		{"out_time_us=-5", 0, false},
		{"out_time_us=abc", 0, false},
		{"out_time=00:00:05.000000", 0, false},
		{"frame=120", 0, false},
		{"plain diagnostic line", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseOutTime(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseOutTime(%q): got (%v, %v), want (%v, %v)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsProgressKey(t *testing.T) {
	progressLines := []string{"frame=42", "speed=1.2x", "progress=continue", "stream_0_0_q=28.0"}
	for _, line := range progressLines {
		if !isProgressKey(line) {
			t.Errorf("isProgressKey(%q): got false, want true", line)
		}
	}
	diagnostics := []string{"in.mp4: No such file or directory", "Error opening input", "x=y but unknown"}
	for _, line := range diagnostics {
		if isProgressKey(line) {
			t.Errorf("isProgressKey(%q): got true, want false", line)
		}
	}
}

// --- Execute ---

type recordingSink struct {
	messages []progress.Message
}

func (s *recordingSink) Send(m progress.Message) { s.messages = append(s.messages, m) }

func (s *recordingSink) statuses() []progress.Status {
	var out []progress.Status
	for _, m := range s.messages {
		if st, ok := m.(progress.Status); ok {
			out = append(out, st)
		}
	}
	return out
}

func newTestRunner(sink progress.Sink) (*Runner, *Registry) {
	reg := NewRegistry()
	return NewRunner(reg, sink, logging.Nop()), reg
}

func TestExecute_Success(t *testing.T) {
	sink := &recordingSink{}
	runner, reg := newTestRunner(sink)

	var fracs []float64
	args := []string{"sh", "-c", "printf 'out_time_us=5000000\nprogress=end\n'"}
	outcome := runner.Execute(context.Background(), args, 10, "Teste", func(f float64) {
		fracs = append(fracs, f)
	})

	if outcome != OutcomeSucceeded {
		t.Fatalf("outcome: got %v, want succeeded", outcome)
	}
	if len(fracs) == 0 || fracs[len(fracs)-1] != 1.0 {
		t.Errorf("progress should end at 1.0, got %v", fracs)
	}
	if reg.Len() != 0 {
		t.Errorf("registry should be empty after reap, got %d", reg.Len())
	}
}

func TestExecute_FailureCarriesDiagnostics(t *testing.T) {
	sink := &recordingSink{}
	runner, _ := newTestRunner(sink)

	args := []string{"sh", "-c", "echo 'codec not found' >&2; exit 2"}
	outcome := runner.Execute(context.Background(), args, 10, "Teste", nil)

	if outcome != OutcomeFailed {
		t.Fatalf("outcome: got %v, want failed", outcome)
	}
	var errText string
	for _, st := range sink.statuses() {
		if st.Severity == progress.SeverityError {
			errText = st.Text
		}
	}
	if !strings.Contains(errText, "codec not found") {
		t.Errorf("error status should carry stderr tail, got %q", errText)
	}
}

func TestExecute_SpawnFailure(t *testing.T) {
	sink := &recordingSink{}
	runner, reg := newTestRunner(sink)

	outcome := runner.Execute(context.Background(), []string{"/nonexistent/binary"}, 10, "Teste", nil)
	if outcome != OutcomeFailed {
		t.Fatalf("outcome: got %v, want failed", outcome)
	}
	if reg.Len() != 0 {
		t.Errorf("nothing should stay registered, got %d", reg.Len())
	}
}

func TestExecute_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	runner, _ := newTestRunner(sink)

	outcome := runner.Execute(ctx, []string{"sh", "-c", "sleep 5"}, 10, "Teste", nil)
	if outcome != OutcomeCancelled {
		t.Fatalf("outcome: got %v, want cancelled", outcome)
	}
	if len(sink.messages) != 0 {
		t.Errorf("no process was spawned, no messages expected, got %v", sink.messages)
	}
}

func TestExecute_CancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{}
	runner, reg := newTestRunner(sink)

	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	outcome := runner.Execute(ctx, []string{"sleep", "30"}, 10, "Teste", nil)
	elapsed := time.Since(start)

	if outcome != OutcomeCancelled {
		t.Fatalf("outcome: got %v, want cancelled", outcome)
	}
	if elapsed > 5*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
	if reg.Len() != 0 {
		t.Errorf("registry should be empty after cancellation, got %d", reg.Len())
	}
}

// --- Registry ---

func TestRegistry_TerminateAll(t *testing.T) {
	reg := NewRegistry()

	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	reg.Register(cmd.Process)
	if reg.Len() != 1 {
		t.Fatalf("len: got %d, want 1", reg.Len())
	}

	if err := reg.TerminateAll(); err != nil {
		t.Errorf("TerminateAll: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("len after terminate: got %d, want 0", reg.Len())
	}

	// The process must actually be gone.
	if err := cmd.Wait(); err == nil {
		t.Error("terminated process should not exit cleanly")
	}
}

func TestRegistry_RegisterNil(t *testing.T) {
	reg := NewRegistry()
	reg.Register(nil)
	if reg.Len() != 0 {
		t.Errorf("nil register should be ignored, got %d", reg.Len())
	}
}
