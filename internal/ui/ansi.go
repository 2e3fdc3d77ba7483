package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
)

var (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	strike = "\033[9m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Painter colors text for one writer: plain when w is not a terminal unless
// color is forced.
type Painter struct {
	on bool
}

func For(w io.Writer) Painter {
	return Painter{on: !disableColor && (forceColor || isTTY(w))}
}

func (p Painter) C(color, s string) string {
	if !p.on || color == "" {
		return s
	}
	return color + s + reset
}

// Truncate shortens s to width cells, keeping escape sequences intact.
func Truncate(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}

func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, For(w).C(t.Success, t.SymDone+" "+msg))
}

func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, For(w).C(t.Error, t.SymFail+" "+msg))
}
