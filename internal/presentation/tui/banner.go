package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Waymark banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to blue, one colour per line
	lines := []struct{ text, color string }{
		{" __      __                               __    ", "#2dd4bf"},
		{"/  \\    /  \\_____  ___.__. _____ _____ _______|  | __", "#22d3ee"},
		{"\\   \\/\\/   /\\__  \\<   |  |/     \\\\__  \\\\_  __ \\  |/ /", "#38bdf8"},
		{" \\        /  / __ \\\\___  |  Y Y  \\/ __ \\|  | \\/    < ", "#60a5fa"},
		{"  \\__/\\  /  (____  / ____|__|_|  (____  /__|  |__|_ \\", "#818cf8"},
		{"       \\/        \\/\\/          \\/     \\/           \\/", "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Success colours s green.
func Success(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#4ade80")).String()
}

// Failure colours s red.
func Failure(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#f87171")).String()
}

// Highlight renders s bold in the accent colour.
func Highlight(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#818cf8")).Bold().String()
}

// Faint renders s dimmed.
func Faint(s string) string {
	return termenv.String(s).Faint().String()
}
