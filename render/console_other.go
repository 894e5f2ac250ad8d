//go:build !windows

package render

import "io"

// Text attributes exist only on Windows consoles; elsewhere LegacyConsole
// renders plain text.
func newConsolePainter(io.Writer) (painter, bool) {
	return nil, false
}
