// Package diag formats compiler diagnostics: fatal errors (one per
// compilation, halting it) and the non-fatal warnings the semantic
// analyzer accumulates. Formatting follows source-context conventions
// of the teacher's internal/errors package; Debug-level trace messages
// about pipeline progress (shown only with --verbose) go through a
// package-level logrus.Logger instead, since those are incidental to
// the diagnostic product itself.
package diag

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/trgwii/bc/pkg/token"
)

// Trace is the logger used for --verbose trace output. It writes to
// stderr at Info level by default, so Debug messages are suppressed; the
// driver raises its level to Debug when --verbose is passed.
var Trace = logrus.New()

func init() {
	Trace.SetLevel(logrus.InfoLevel)
	Trace.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// FatalError is the single diagnostic that halts a compilation: a
// tokenizer, parser, or code generator failure.
type FatalError struct {
	Pos     token.Position
	Message string
	Source  string
	File    string
}

// Error implements the error interface with no source context, for use
// as a plain Go error value.
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Message)
}

// Format renders e as a one-line-plus-context diagnostic, with ANSI
// color when color is true.
func (e *FatalError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		writeColored(&sb, color, "\033[1;31m", "^")
		sb.WriteString("\n")
	}

	writeColored(&sb, color, "\033[1m", e.Message)
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func writeColored(sb *strings.Builder, color bool, code, text string) {
	if color {
		sb.WriteString(code)
	}
	sb.WriteString(text)
	if color {
		sb.WriteString("\033[0m")
	}
}

// WarningDiag formats a semantic.Warning-shaped diagnostic. It is kept
// decoupled from the semantic package (which has no reason to import an
// ANSI formatter) by taking position and message directly.
type WarningDiag struct {
	Pos     token.Position
	Message string
	File    string
}

// Format renders w as a single line: "warning: file:pos: message".
func (w WarningDiag) Format(color bool) string {
	var sb strings.Builder
	writeColored(&sb, color, "\033[33m", "warning: ")
	if w.File != "" {
		fmt.Fprintf(&sb, "%s:", w.File)
	}
	fmt.Fprintf(&sb, "%s: %s", w.Pos, w.Message)
	return sb.String()
}

// FormatWarnings renders each warning on its own line, in order.
func FormatWarnings(warnings []WarningDiag, color bool) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.Format(color)
	}
	return strings.Join(lines, "\n")
}
