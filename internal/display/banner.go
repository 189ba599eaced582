package display

import (
	"fmt"
	"io"

	"github.com/MT7720/Editor-Autom-tico/internal/term"
)

// PrintBanner prints the startup header.
func PrintBanner(out io.Writer, version string) {
	fmt.Fprintf(out, "%sEditor Automático%s v%s\n\n", term.Cyan, term.NC, version)
}
