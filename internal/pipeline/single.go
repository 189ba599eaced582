package pipeline

import "context"

// single produces one output from one primary video plus the optional
// narration, music, and subtitle tracks.
func (r *run) single(ctx context.Context) bool {
	it := item{
		VideoPath:     r.params.MediaPath,
		NarrationPath: r.params.NarrationPath,
		MusicPath:     r.params.MusicPath,
		SubtitlePath:  r.params.SubtitlePath,
		OutputPath:    r.outputPath(),
	}
	return r.processItem(ctx, it, 0, 1) == nil
}
