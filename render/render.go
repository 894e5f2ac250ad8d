package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"github.com/wippyai/wasm-binfmt/errors"
)

// ColorMode selects how diagnostics are coloured.
type ColorMode int

const (
	Auto ColorMode = iota
	ANSI
	LegacyConsole
	Plain
)

var colorModeNames = map[ColorMode]string{
	Auto:          "auto",
	ANSI:          "ansi",
	LegacyConsole: "legacy",
	Plain:         "plain",
}

func (m ColorMode) String() string {
	if s, ok := colorModeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseColorMode parses auto, ansi, legacy or plain.
func ParseColorMode(s string) (ColorMode, error) {
	for m, name := range colorModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return Auto, fmt.Errorf("unknown color mode %q", s)
}

// Encoding is the character encoding of rendered output.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
)

var encodingNames = map[Encoding]string{
	UTF8:    "utf-8",
	UTF16LE: "utf-16le",
	UTF16BE: "utf-16be",
	UTF32LE: "utf-32le",
	UTF32BE: "utf-32be",
}

func (e Encoding) String() string {
	if s, ok := encodingNames[e]; ok {
		return s
	}
	return "unknown"
}

// ParseEncoding parses an encoding name. The hyphen after "utf" is
// optional.
func ParseEncoding(s string) (Encoding, error) {
	norm := strings.ToLower(s)
	if strings.HasPrefix(norm, "utf") && !strings.HasPrefix(norm, "utf-") {
		norm = "utf-" + norm[3:]
	}
	for e, name := range encodingNames {
		if norm == name {
			return e, nil
		}
	}
	return UTF8, fmt.Errorf("unknown encoding %q", s)
}

func (e Encoding) encoder() *encoding.Encoder {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewEncoder()
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewEncoder()
	default:
		return nil
	}
}

// Options configures a Renderer.
type Options struct {
	Prefix   string
	Color    ColorMode
	Encoding Encoding
}

// DefaultOptions returns auto colour, UTF-8 output and the "wasmcheck"
// prefix.
func DefaultOptions() Options {
	return Options{Prefix: "wasmcheck"}
}

// Renderer formats decode errors as single diagnostic lines:
//
//	<prefix>: [error] (offset=N) <message>
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// style is the role of a span in the rendered line.
type style uint8

const (
	styleBase style = iota
	styleError
	styleValue
)

// painter writes one styled span to the output.
type painter interface {
	paint(w io.Writer, s style, text string) error
	reset(w io.Writer) error
}

// Render writes e as one line terminated by a newline.
func (r *Renderer) Render(w io.Writer, e *errors.Error) error {
	p := r.painter(w)

	out := w
	var tw *transform.Writer
	if enc := r.opts.Encoding.encoder(); enc != nil {
		tw = transform.NewWriter(w, enc)
		out = tw
	}

	if err := r.write(out, p, e); err != nil {
		return fmt.Errorf("render %s: %w", e.Code, err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return fmt.Errorf("flush %s output: %w", r.opts.Encoding, err)
		}
	}
	return nil
}

func (r *Renderer) write(w io.Writer, p painter, e *errors.Error) error {
	spans := []struct {
		text  string
		style style
	}{
		{r.opts.Prefix + ": ", styleBase},
		{"[error] ", styleError},
		{"(offset=" + strconv.Itoa(e.Offset) + ") ", styleBase},
	}
	if r.opts.Prefix == "" {
		spans = spans[1:]
	}
	for _, s := range spans {
		if err := p.paint(w, s.style, s.text); err != nil {
			return err
		}
	}
	for _, s := range messageSpans(e) {
		st := styleBase
		if s.kind == spanValue {
			st = styleValue
		}
		if err := p.paint(w, st, s.text); err != nil {
			return err
		}
	}
	if err := p.reset(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (r *Renderer) painter(w io.Writer) painter {
	switch r.opts.Color {
	case ANSI:
		return newANSIPainter(w)
	case LegacyConsole:
		if p, ok := newConsolePainter(w); ok {
			return p
		}
		return plainPainter{}
	case Plain:
		return plainPainter{}
	default:
		if IsTerminal(w) {
			return newANSIPainter(w)
		}
		return plainPainter{}
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type plainPainter struct{}

func (plainPainter) paint(w io.Writer, _ style, text string) error {
	_, err := io.WriteString(w, text)
	return err
}

func (plainPainter) reset(io.Writer) error { return nil }

// ansiPainter styles spans with lipgloss on a forced ANSI profile, so
// escapes are emitted even when w is not a terminal.
type ansiPainter struct {
	styles [3]lipgloss.Style
}

func newANSIPainter(w io.Writer) ansiPainter {
	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(termenv.ANSI)
	return ansiPainter{styles: [3]lipgloss.Style{
		styleBase:  lr.NewStyle().Foreground(lipgloss.Color("7")),
		styleError: lr.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		styleValue: lr.NewStyle().Foreground(lipgloss.Color("6")),
	}}
}

func (p ansiPainter) paint(w io.Writer, s style, text string) error {
	_, err := io.WriteString(w, p.styles[s].Render(text))
	return err
}

func (ansiPainter) reset(io.Writer) error { return nil }
