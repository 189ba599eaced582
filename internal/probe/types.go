package probe

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrUnknownDuration is returned when a probed file has no parsable duration.
// Callers for which duration drives timing must treat this as fatal for the
// item rather than defaulting to zero.
var ErrUnknownDuration = errors.New("duração do arquivo desconhecida")

// Properties is the parsed ffprobe report for one media file, passed through
// from the probe call without interpretation.
type Properties struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one elementary stream. Width/Height are only meaningful
// for video streams.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"` // "video", "audio", "subtitle", ...
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Format is the container-level block of the report.
type Format struct {
	FormatName string     `json:"format_name"`
	Duration   flexNumber `json:"duration"`
}

// FormatFromDuration builds a Format carrying the given duration string.
// Mainly useful for constructing Properties without a real probe.
func FormatFromDuration(seconds string) Format {
	return Format{Duration: flexNumber(seconds)}
}

// flexNumber accepts both JSON strings and JSON numbers, since ffprobe emits
// duration as a string but other producers may not.
type flexNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (n *flexNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = flexNumber(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = flexNumber(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Duration returns the container duration in seconds, or ErrUnknownDuration
// when the field is absent, unparsable, or non-positive.
func (p *Properties) Duration() (float64, error) {
	if p == nil {
		return 0, ErrUnknownDuration
	}
	raw := strings.TrimSpace(string(p.Format.Duration))
	if raw == "" {
		return 0, ErrUnknownDuration
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d <= 0 {
		return 0, ErrUnknownDuration
	}
	return d, nil
}

// FirstVideo returns the first video stream, or nil when there is none.
func (p *Properties) FirstVideo() *Stream {
	if p == nil {
		return nil
	}
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

// HasVideo reports whether a usable video stream is present.
func (p *Properties) HasVideo() bool { return p.FirstVideo() != nil }

// HasAudio reports whether any audio stream is present.
func (p *Properties) HasAudio() bool {
	if p == nil {
		return false
	}
	for i := range p.Streams {
		if p.Streams[i].CodecType == "audio" {
			return true
		}
	}
	return false
}

// VideoDimensions returns the primary video stream's width and height.
// ok is false when there is no video stream or its dimensions are unset.
func (p *Properties) VideoDimensions() (w, h int, ok bool) {
	v := p.FirstVideo()
	if v == nil || v.Width <= 0 || v.Height <= 0 {
		return 0, 0, false
	}
	return v.Width, v.Height, true
}
