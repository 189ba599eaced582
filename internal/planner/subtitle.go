package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MT7720/Editor-Autom-tico/internal/config"
)

const (
	defaultFontName  = "Arial"
	defaultAlignment = 2 // Bottom center.
)

// StyleString renders a SubtitleStyle as an ASS force_style fragment for the
// subtitles burn-in filter. Deterministic and pure: the position map travels
// inside the style, and malformed colors degrade to opaque white instead of
// failing.
func StyleString(s config.SubtitleStyle) string {
	font := defaultFontName
	if s.FontFile != "" {
		base := filepath.Base(s.FontFile)
		font = strings.TrimSuffix(base, filepath.Ext(base))
	}

	alignment := defaultAlignment
	if code, ok := s.PositionMap[s.Position]; ok {
		alignment = code
	}

	// ASS uses -1/0 sentinels for bold and italic, not booleans, and stores
	// colors as &H<BB><GG><RR>. MarginV tracks the font size so larger text
	// keeps a proportional edge distance.
	return fmt.Sprintf(
		"FontName=%s,FontSize=%d,PrimaryColour=%s,OutlineColour=%s,Bold=%d,Italic=%d,Alignment=%d,MarginV=%d",
		font,
		s.FontSize,
		assColor(s.TextColor),
		assColor(s.OutlineColor),
		assFlag(s.Bold),
		assFlag(s.Italic),
		alignment,
		s.FontSize*70/100,
	)
}

// assColor converts "#RRGGBB" into the ASS "&HBBGGRR" encoding (channel
// order reversed). Malformed input yields opaque white.
func assColor(hex string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 || !isHex(hex) {
		return "&HFFFFFF"
	}
	hex = strings.ToUpper(hex)
	return "&H" + hex[4:6] + hex[2:4] + hex[0:2]
}

func assFlag(on bool) int {
	if on {
		return -1
	}
	return 0
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
