// Package check implements the --check diagnostics flow: encoder and prober
// availability, detected hardware encoders, and host resources.
package check

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/MT7720/Editor-Autom-tico/internal/display"
	"github.com/MT7720/Editor-Autom-tico/internal/logging"
	"github.com/MT7720/Editor-Autom-tico/internal/probe"
	"github.com/MT7720/Editor-Autom-tico/internal/term"
)

// RunCheck prints the system diagnostics report. Informational only: every
// finding is printed and nothing stops the flow.
func RunCheck(ctx context.Context, ffmpegPath string, out io.Writer, log *logging.Logger) {
	fmt.Fprintln(out, "=== Verificação do sistema ===")

	reportTool(out, "ffmpeg", ffmpegPath)
	reportTool(out, "ffprobe", probe.FFprobePath(ffmpegPath))

	encoders := probe.DetectEncoders(ctx, ffmpegPath, log)
	fmt.Fprintf(out, "%sEncoders disponíveis:%s %s\n", term.Cyan, term.NC, strings.Join(encoders, ", "))

	reportHost(out)
}

// reportTool prints the first line of "<tool> -version", or a miss.
func reportTool(out io.Writer, name, path string) {
	version, err := toolVersion(path)
	if err != nil {
		fmt.Fprintf(out, "%s%s: não encontrado em %s%s\n", term.Red, name, path, term.NC)
		return
	}
	fmt.Fprintf(out, "%s%s:%s %s\n", term.Green, name, term.NC, version)
}

func toolVersion(path string) (string, error) {
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		return "", err
	}
	first := string(out)
	if idx := strings.Index(first, "\n"); idx > 0 {
		first = first[:idx]
	}
	return strings.TrimSpace(first), nil
}

// reportHost prints CPU core count and memory totals.
func reportHost(out io.Writer) {
	if cores, err := cpu.Counts(true); err == nil {
		fmt.Fprintf(out, "%sCPU:%s %d núcleos lógicos\n", term.Cyan, term.NC, cores)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(out, "%sMemória:%s %s livre de %s\n", term.Cyan, term.NC,
			display.FormatBytes(int64(vm.Available)), display.FormatBytes(int64(vm.Total)))
	}
}
