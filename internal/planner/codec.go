package planner

import "github.com/MT7720/Editor-Autom-tico/internal/config"

// Encoder argument fragments. Hardware encoders are driven by constant
// quality (-cq), the software encoder by constant rate factor (-crf); the
// two knobs are not interchangeable and must stay distinct.
func hardwareCodecArgs(encoder string) []string {
	return []string{"-c:v", encoder, "-preset", "p4", "-cq", "23"}
}

func softwareCodecArgs() []string {
	return []string{"-c:v", "libx264", "-preset", "medium", "-crf", "23"}
}

// copyCodecArgs passes the video stream through untouched.
func copyCodecArgs() []string {
	return []string{"-c:v", "copy"}
}

// SelectCodec returns the video codec fragment for one output item. When no
// re-encode is required the stream is copied directly (no quality loss, no
// encode cost). Otherwise the user's preference is honored, constrained by
// the encoders actually detected; Automatic prefers hardware HEVC, then
// hardware H.264, then software.
func SelectCodec(p *config.Params, forceReencode bool) []string {
	if !forceReencode {
		return copyCodecArgs()
	}

	available := make(map[string]bool, len(p.AvailableEncoders))
	for _, e := range p.AvailableEncoders {
		available[e] = true
	}

	var order []string
	switch p.Codec {
	case config.CodecCPU:
		order = nil
	case config.CodecNVENCH264:
		order = []string{"h264_nvenc"}
	default: // CodecAuto, CodecNVENCHEVC, and anything unrecognized.
		order = []string{"hevc_nvenc", "h264_nvenc"}
	}

	for _, enc := range order {
		if available[enc] {
			return hardwareCodecArgs(enc)
		}
	}
	return softwareCodecArgs()
}
