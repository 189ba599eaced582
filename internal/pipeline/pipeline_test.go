package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MT7720/Editor-Autom-tico/internal/config"
	"github.com/MT7720/Editor-Autom-tico/internal/ffmpeg"
	"github.com/MT7720/Editor-Autom-tico/internal/logging"
	"github.com/MT7720/Editor-Autom-tico/internal/progress"
)

// --- Helpers ---

type captureSink struct {
	messages []progress.Message
}

func (s *captureSink) Send(m progress.Message) { s.messages = append(s.messages, m) }

func (s *captureSink) finishes() []progress.Finish {
	var out []progress.Finish
	for _, m := range s.messages {
		if f, ok := m.(progress.Finish); ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *captureSink) lastStatus() (progress.Status, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if st, ok := s.messages[i].(progress.Status); ok {
			return st, true
		}
	}
	return progress.Status{}, false
}

func (s *captureSink) batchProgress() []float64 {
	var out []float64
	for _, m := range s.messages {
		if bp, ok := m.(progress.BatchProgress); ok {
			out = append(out, bp.Fraction)
		}
	}
	return out
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func testParams(t *testing.T) config.Params {
	t.Helper()
	p := config.DefaultParams()
	bin := t.TempDir()
	p.FFmpegPath = writeFile(t, bin, "ffmpeg")
	p.OutputFolder = t.TempDir()
	return p
}

func newTestPipeline() *Pipeline {
	return New(logging.Nop(), ffmpeg.NewRegistry())
}

// --- Entry point guarantees ---

func TestProcess_InvalidParamsFinishesOnce(t *testing.T) {
	p := config.DefaultParams() // no ffmpeg, no output folder
	sink := &captureSink{}

	newTestPipeline().Process(context.Background(), &p, sink)

	finishes := sink.finishes()
	require.Len(t, finishes, 1)
	assert.False(t, finishes[0].Success)

	last, ok := sink.lastStatus()
	require.True(t, ok)
	assert.Equal(t, progress.SeverityError, last.Severity)
}

func TestProcess_FinishIsLastMessage(t *testing.T) {
	p := config.DefaultParams()
	sink := &captureSink{}

	newTestPipeline().Process(context.Background(), &p, sink)

	require.NotEmpty(t, sink.messages)
	_, isFinish := sink.messages[len(sink.messages)-1].(progress.Finish)
	assert.True(t, isFinish, "finish must be the terminal message")
}

func TestProcess_CancelledBeforeStart(t *testing.T) {
	p := testParams(t)
	p.MediaPath = writeFile(t, t.TempDir(), "video.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &captureSink{}
	newTestPipeline().Process(ctx, &p, sink)

	finishes := sink.finishes()
	require.Len(t, finishes, 1)
	assert.False(t, finishes[0].Success)

	last, ok := sink.lastStatus()
	require.True(t, ok)
	assert.Equal(t, progress.SeverityWarning, last.Severity)
	assert.Contains(t, last.Text, "cancelado")
}

// panickingSink blows up on the first batch-progress message, simulating an
// internal fault deep inside an orchestrator.
type panickingSink struct {
	captureSink
}

func (s *panickingSink) Send(m progress.Message) {
	if _, ok := m.(progress.BatchProgress); ok {
		panic("sink exploded")
	}
	s.captureSink.Send(m)
}

func TestProcess_PanicStillFinishesOnce(t *testing.T) {
	p := testParams(t)
	p.Mode = config.ModeBatch
	p.VideoFolder = t.TempDir()
	p.AudioFolder = t.TempDir()

	sink := &panickingSink{}
	require.NotPanics(t, func() {
		newTestPipeline().Process(context.Background(), &p, sink)
	})

	finishes := sink.finishes()
	require.Len(t, finishes, 1)
	assert.False(t, finishes[0].Success)

	last, ok := sink.lastStatus()
	require.True(t, ok)
	assert.Equal(t, progress.SeverityError, last.Severity)
}

// --- Batch orchestrator ---

func batchParams(t *testing.T) config.Params {
	t.Helper()
	p := testParams(t)
	p.Mode = config.ModeBatch
	p.VideoFolder = t.TempDir()
	p.AudioFolder = t.TempDir()
	return p
}

func TestProcess_BatchEmptyAudioFolderSucceeds(t *testing.T) {
	p := batchParams(t)
	sink := &captureSink{}

	newTestPipeline().Process(context.Background(), &p, sink)

	finishes := sink.finishes()
	require.Len(t, finishes, 1)
	assert.True(t, finishes[0].Success, "an empty batch is not a failure")

	bp := sink.batchProgress()
	require.NotEmpty(t, bp)
	assert.Equal(t, 1.0, bp[len(bp)-1])
}

func TestProcess_BatchEmptyVideoPoolSkipsItem(t *testing.T) {
	p := batchParams(t)
	writeFile(t, p.AudioFolder, "aula_01.mp3")
	// Video folder stays empty: the item is skipped, the batch still succeeds.
	sink := &captureSink{}

	newTestPipeline().Process(context.Background(), &p, sink)

	finishes := sink.finishes()
	require.Len(t, finishes, 1)
	assert.True(t, finishes[0].Success)

	var warned bool
	for _, m := range sink.messages {
		if st, ok := m.(progress.Status); ok && st.Severity == progress.SeverityWarning {
			warned = true
		}
	}
	assert.True(t, warned, "skipped item should produce a warning")

	bp := sink.batchProgress()
	require.NotEmpty(t, bp)
	assert.Equal(t, 0.0, bp[0])
	assert.Equal(t, 1.0, bp[len(bp)-1])
}

func TestRun_PickVideoUsesLanguageSubfolder(t *testing.T) {
	p := batchParams(t)
	langDir := filepath.Join(p.VideoFolder, "EN")
	require.NoError(t, os.Mkdir(langDir, 0o755))
	want := writeFile(t, langDir, "clip.mp4")
	writeFile(t, p.VideoFolder, "parent.mp4")

	r := &run{params: &p, log: logging.Nop()}

	got, ok := r.pickVideo("/audios/aula_EN.mp3")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRun_PickVideoFallsBackToParent(t *testing.T) {
	p := batchParams(t)
	want := writeFile(t, p.VideoFolder, "parent.mp4")

	r := &run{params: &p, log: logging.Nop()}

	got, ok := r.pickVideo("/audios/aula_FR.mp3")
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = r.pickVideo("/audios/sem_video.mp3")
	assert.True(t, ok, "no language code still picks from the parent pool")
}

func TestRun_FindSubtitle(t *testing.T) {
	p := batchParams(t)
	p.SubtitleFolder = t.TempDir()
	want := writeFile(t, p.SubtitleFolder, "aula_01.srt")

	r := &run{params: &p}

	assert.Equal(t, want, r.findSubtitle("/audios/aula_01.mp3"))
	assert.Equal(t, "", r.findSubtitle("/audios/aula_02.mp3"))

	r.params.SubtitleFolder = ""
	assert.Equal(t, "", r.findSubtitle("/audios/aula_01.mp3"))
}

// --- Discovery ---

func TestListByExt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.MP3")
	writeFile(t, dir, "a.mp3")
	writeFile(t, dir, "notas.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755))

	got, err := listByExt(dir, audioExts)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(dir, "a.mp3"), got[0], "results must be name-sorted")
	assert.Equal(t, filepath.Join(dir, "b.MP3"), got[1], "extension match is case-insensitive")
}

func TestListByExt_MissingDir(t *testing.T) {
	_, err := listByExt("/nonexistent/dir", audioExts)
	assert.Error(t, err)
}
