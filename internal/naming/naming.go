// Package naming derives output file names for batch items and keeps them
// unique within one run.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

// langRe matches a language suffix immediately before the extension, as in
// "aula_03_EN.mp3" or "intro_por.wav".
var langRe = regexp.MustCompile(`_([A-Za-z]{2,3})\.[^.]+$`)

// LanguageCode extracts the language suffix from an audio filename. Returns
// the code uppercased, or "" when the name carries none.
func LanguageCode(filename string) string {
	m := langRe.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// OutputName returns the batch output filename for one narration file: the
// narration's own stem with the container extension.
func OutputName(audioPath string) string {
	base := filepath.Base(audioPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "video_final"
	}
	return stem + ".mp4"
}

// Stem returns the filename without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
