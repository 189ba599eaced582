package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MT7720/Editor-Autom-tico/internal/logging"
)

const sampleReport = `{
	"streams": [
		{"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1280, "height": 720},
		{"index": 1, "codec_name": "aac", "codec_type": "audio"}
	],
	"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.345000"}
}`

func TestParseJSON(t *testing.T) {
	props, err := ParseJSON([]byte(sampleReport))
	require.NoError(t, err)
	require.Len(t, props.Streams, 2)

	assert.True(t, props.HasVideo())
	assert.True(t, props.HasAudio())

	w, h, ok := props.VideoDimensions()
	require.True(t, ok)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	d, err := props.Duration()
	require.NoError(t, err)
	assert.InDelta(t, 12.345, d, 1e-9)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	props, err := ParseJSON([]byte(`{"streams": [], "format": {"duration": 7.5}}`))
	require.NoError(t, err)

	d, err := props.Duration()
	require.NoError(t, err)
	assert.InDelta(t, 7.5, d, 1e-9)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte("Not JSON at all"))
	assert.Error(t, err)
}

func TestDuration_Unknown(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"absent", `{"format": {}}`},
		{"empty", `{"format": {"duration": ""}}`},
		{"garbage", `{"format": {"duration": "N/A"}}`},
		{"zero", `{"format": {"duration": "0"}}`},
		{"negative", `{"format": {"duration": "-3"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := ParseJSON([]byte(tt.raw))
			require.NoError(t, err)
			_, err = props.Duration()
			assert.ErrorIs(t, err, ErrUnknownDuration)
		})
	}
}

func TestDuration_NilReceiver(t *testing.T) {
	var props *Properties
	_, err := props.Duration()
	assert.ErrorIs(t, err, ErrUnknownDuration)
	assert.False(t, props.HasVideo())
	assert.False(t, props.HasAudio())
}

func TestVideoDimensions_NoVideo(t *testing.T) {
	props := &Properties{Streams: []Stream{{CodecType: "audio"}}}
	_, _, ok := props.VideoDimensions()
	assert.False(t, ok)
}

func TestProbe_MissingProberIsSoft(t *testing.T) {
	p := NewProber("/nonexistent/dir/ffmpeg", logging.Nop())
	assert.Nil(t, p.Probe(context.Background(), "whatever.mp4"))
}

func TestFFprobePath(t *testing.T) {
	got := FFprobePath("/opt/tools/ffmpeg")
	assert.Contains(t, got, "/opt/tools/")
	assert.Contains(t, got, "ffprobe")
}

func TestDetectEncoders_MissingBinary(t *testing.T) {
	got := DetectEncoders(context.Background(), "/nonexistent/ffmpeg", logging.Nop())
	assert.Equal(t, []string{"libx264"}, got)
}
