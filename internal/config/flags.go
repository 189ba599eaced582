package config

// This file implements CLI flag parsing for the autoeditor binary. Flags are
// grouped into mode/input, output, video, audio, subtitle, and utility. The
// GUI front end builds Params directly and never goes through this path.

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ParseFlags parses args (without the program name) into p, returning
// flag.ErrHelp on --help. When no ffmpeg path is given, PATH is searched.
func ParseFlags(p *Params, args []string, version string) error {
	fs := flag.NewFlagSet("autoeditor", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var (
		forceColor bool
		noColor    bool
	)

	// Mode and inputs.
	fs.Var(&modeValue{&p.Mode}, "mode", "Modo de operação: single | slideshow | batch")
	fs.StringVar(&p.MediaPath, "video", "", "Vídeo principal (single) ou pasta de imagens (slideshow)")
	fs.StringVar(&p.NarrationPath, "narracao", "", "Arquivo de narração")
	fs.StringVar(&p.MusicPath, "musica", "", "Música de fundo (opcional)")
	fs.StringVar(&p.SubtitlePath, "legenda", "", "Arquivo de legenda SRT (opcional)")
	fs.StringVar(&p.VideoFolder, "pasta-videos", "", "Pasta de vídeos (batch)")
	fs.StringVar(&p.AudioFolder, "pasta-audios", "", "Pasta de narrações (batch)")
	fs.StringVar(&p.SubtitleFolder, "pasta-legendas", "", "Pasta de legendas (batch, opcional)")

	// Output.
	fs.StringVar(&p.OutputFolder, "saida", "", "Pasta de saída")
	fs.StringVar(&p.OutputName, "nome", p.OutputName, "Nome do arquivo de saída")

	// Video.
	fs.StringVar(&p.Resolution, "resolucao", p.Resolution, `Resolução alvo, ex. "1080p (1920x1080)"`)
	fs.StringVar(&p.Codec, "codec", p.Codec, "Codificador: Automático | CPU (libx264) | GPU (NVENC H.264) | GPU (NVENC HEVC)")
	fs.IntVar(&p.ImageDuration, "duracao-imagem", p.ImageDuration, "Segundos por imagem no slideshow")

	// Audio.
	fs.Float64Var(&p.NarrationVolume, "volume-narracao", p.NarrationVolume, "Volume da narração em dB")
	fs.Float64Var(&p.MusicVolume, "volume-musica", p.MusicVolume, "Volume da música em dB")

	// Subtitle style.
	fs.IntVar(&p.Subtitle.FontSize, "fonte-tamanho", p.Subtitle.FontSize, "Tamanho da fonte da legenda")
	fs.StringVar(&p.Subtitle.TextColor, "fonte-cor", p.Subtitle.TextColor, "Cor do texto (#RRGGBB)")
	fs.StringVar(&p.Subtitle.OutlineColor, "fonte-contorno", p.Subtitle.OutlineColor, "Cor do contorno (#RRGGBB)")
	fs.StringVar(&p.Subtitle.Position, "posicao", p.Subtitle.Position, "Posição da legenda")
	fs.StringVar(&p.Subtitle.FontFile, "fonte-arquivo", "", "Arquivo de fonte .ttf/.otf (opcional)")
	fs.BoolVar(&p.Subtitle.Bold, "negrito", p.Subtitle.Bold, "Legenda em negrito")
	fs.BoolVar(&p.Subtitle.Italic, "italico", p.Subtitle.Italic, "Legenda em itálico")

	// Utility.
	fs.StringVar(&p.FFmpegPath, "ffmpeg", "", "Caminho do executável ffmpeg (padrão: PATH)")
	fs.BoolVar(&p.CheckOnly, "check", false, "Diagnóstico do sistema e sai")
	fs.BoolVar(&p.Verbose, "v", false, "Saída detalhada")
	fs.BoolVar(&forceColor, "color", false, "Força cores no terminal")
	fs.BoolVar(&noColor, "no-color", false, "Desativa cores no terminal")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if noColor {
		p.ColorMode = ColorNever
	} else if forceColor {
		p.ColorMode = ColorAlways
	}
	if p.FFmpegPath == "" {
		if found, err := exec.LookPath("ffmpeg"); err == nil {
			p.FFmpegPath = found
		}
	}
	return nil
}

// modeValue adapts Mode to flag.Value so invalid modes fail at parse time.
type modeValue struct{ p *Mode }

func (m *modeValue) String() string { return string(*m.p) }
func (m *modeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "single":
		*m.p = ModeSingle
	case "slideshow":
		*m.p = ModeSlideshow
	case "batch":
		*m.p = ModeBatch
	default:
		return fmt.Errorf("modo inválido %q (use single, slideshow ou batch)", s)
	}
	return nil
}

// printUsage writes the help text to stderr, column-aligned.
func printUsage(fs *flag.FlagSet, version string) {
	fmt.Fprintf(os.Stderr, "autoeditor v%s: montagem automática de vídeos narrados\n\n", version)
	fmt.Fprintln(os.Stderr, "  autoeditor -mode single -video a.mp4 -narracao n.mp3 -saida ./out")
	fmt.Fprintln(os.Stderr, "  autoeditor -mode slideshow -video ./imagens -narracao n.mp3 -saida ./out")
	fmt.Fprintln(os.Stderr, "  autoeditor -mode batch -pasta-videos ./v -pasta-audios ./a -saida ./out")
	fmt.Fprintln(os.Stderr)
	fs.PrintDefaults()
}
