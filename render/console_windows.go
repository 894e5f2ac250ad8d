//go:build windows

package render

import (
	"io"
	"os"

	"github.com/Azure/go-ansiterm/winterm"
)

// consolePainter colours spans with console text attributes for Windows
// consoles that do not interpret ANSI escapes.
type consolePainter struct {
	handle   uintptr
	original uint16
}

func newConsolePainter(w io.Writer) (painter, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return nil, false
	}
	info, err := winterm.GetConsoleScreenBufferInfo(f.Fd())
	if err != nil {
		return nil, false
	}
	return consolePainter{handle: f.Fd(), original: info.Attributes}, true
}

func (p consolePainter) attr(s style) uint16 {
	bg := p.original &^ winterm.FOREGROUND_MASK
	switch s {
	case styleError:
		return bg | winterm.FOREGROUND_RED | winterm.FOREGROUND_INTENSITY
	case styleValue:
		return bg | winterm.FOREGROUND_GREEN | winterm.FOREGROUND_BLUE
	default:
		return bg | winterm.FOREGROUND_RED | winterm.FOREGROUND_GREEN | winterm.FOREGROUND_BLUE
	}
}

func (p consolePainter) paint(w io.Writer, s style, text string) error {
	if err := winterm.SetConsoleTextAttribute(p.handle, p.attr(s)); err != nil {
		return err
	}
	_, err := io.WriteString(w, text)
	return err
}

func (p consolePainter) reset(io.Writer) error {
	return winterm.SetConsoleTextAttribute(p.handle, p.original)
}
