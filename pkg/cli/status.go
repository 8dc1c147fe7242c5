package cli

import (
	"fmt"
	"io"
	"strings"
)

// StatusKind classifies a diagnostic line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusOK
	StatusWarn
	StatusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 24

// String returns the bracketed label of the kind.
func (k StatusKind) String() string {
	switch k {
	case StatusOK:
		return "OK"
	case StatusWarn:
		return "WARN"
	case StatusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k StatusKind) color() string {
	switch k {
	case StatusOK:
		return ansiGreen
	case StatusWarn:
		return ansiYellow
	case StatusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

// StatusWriter prints aligned "label: [KIND] message" lines, colored when
// writing to a terminal.
type StatusWriter struct {
	w        io.Writer
	colorize bool
	errors   int
}

// NewStatusWriter creates a StatusWriter for w.
func NewStatusWriter(w io.Writer) *StatusWriter {
	return &StatusWriter{w: w, colorize: IsTerminal(w)}
}

// Section prints a section header.
func (s *StatusWriter) Section(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if s.colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintln(s.w, line)
}

// Line prints one status line.
func (s *StatusWriter) Line(label string, kind StatusKind, message string) {
	if kind == StatusError {
		s.errors++
	}
	fmt.Fprintln(s.w, RenderStatusLine(label, kind, message, s.colorize))
}

// Errors returns the number of error lines printed.
func (s *StatusWriter) Errors() int {
	return s.errors
}

// RenderStatusLine formats one status line.
func RenderStatusLine(label string, kind StatusKind, message string, colorize bool) string {
	status := fmt.Sprintf("[%s]", kind)
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", status)
	if colorize {
		return kind.color() + line + ansiReset
	}
	return line
}
