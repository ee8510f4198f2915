// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rewrite"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	statusWidth  = 15 // Width for status text
	detailIndent = 6  // spaces to indent per-file details
)

// 🎯 FileOperation represents one file's outcome for logging
type FileOperation struct {
	Path         string // File path relative to the base dir
	Status       string // Operation status
	IsModified   bool   // Whether the content changed
	IsSkipped    bool   // Whether the file was skipped
	IsFailed     bool   // Whether processing failed
	Replacements int    // Number of replacements made
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

var _ rewrite.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger writing human output to console and records to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("status", op.Status).
		Bool("is_modified", op.IsModified).
		Bool("is_skipped", op.IsSkipped).
		Bool("is_failed", op.IsFailed).
		Int("replacements", op.Replacements).
		Msg("file operation")
}

// 📝 detail prints an indented line under the last file entry
func (l *Logger) detail(attr color.Attribute, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(l.console, "%*s%s\n", detailIndent, "", color.New(attr).Sprint(line))
	}
}

// FileStarted records that a target is about to be read
func (l *Logger) FileStarted(ctx context.Context, t rewrite.Target) {
	l.zlog.Debug().Str("file", t.Rel).Msg("processing")
}

// FileSkipped prints a skip notice with its reason
func (l *Logger) FileSkipped(ctx context.Context, t rewrite.Target, reason string) {
	l.LogFileOperation(ctx, FileOperation{
		Path:      t.Rel,
		Status:    "skipped: " + reason,
		IsSkipped: true,
	})
}

// FileProcessed prints the outcome of one file, its diff and any rules that
// matched again after rewriting
func (l *Logger) FileProcessed(ctx context.Context, r rewrite.Result, dryRun bool) {
	status := "no changes needed"
	if r.Changed {
		status = pluralize(r.Replacements, "replacement")
		if dryRun {
			status = "would apply " + status
		}
	}

	l.LogFileOperation(ctx, FileOperation{
		Path:         r.Rel,
		Status:       status,
		IsModified:   r.Changed,
		Replacements: r.Replacements,
	})

	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Diff != "" {
		l.detail(color.Faint, r.Diff)
	}
	for _, m := range r.Unstable {
		l.detail(color.FgYellow, fmt.Sprintf("⚠️  rule %s still matches after rewriting (%s)", m.Name, pluralize(m.Count, "match")))
		l.zlog.Warn().Str("file", r.Rel).Str("rule", m.Name).Int("count", m.Count).Msg("rule is not idempotent")
	}
}

// FileFailed prints a failure line followed by the error
func (l *Logger) FileFailed(ctx context.Context, t rewrite.Target, err error) {
	l.LogFileOperation(ctx, FileOperation{
		Path:     t.Rel,
		Status:   "failed",
		IsFailed: true,
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	l.detail(color.FgRed, err.Error())
	l.zlog.Error().Err(err).Str("file", t.Rel).Msg("file failed")
}

// RunFinished prints the summary table
func (l *Logger) RunFinished(ctx context.Context, s rewrite.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	changedHeader := "changed"
	if s.DryRun {
		changedHeader = "would change"
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"processed", changedHeader, "skipped", "failed", "replacements"},
		{
			strconv.Itoa(s.Processed),
			strconv.Itoa(s.Changed),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Failed),
			strconv.Itoa(s.Replacements),
		},
	}).Srender()
	if err != nil {
		l.zlog.Warn().Err(err).Msg("rendering summary table")
	} else {
		fmt.Fprintf(l.console, "\n%s\n", table)
	}

	l.zlog.Info().
		Int("processed", s.Processed).
		Int("changed", s.Changed).
		Int("skipped", s.Skipped).
		Int("failed", s.Failed).
		Int("replacements", s.Replacements).
		Bool("dry_run", s.DryRun).
		Msg("run finished")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "ch") {
		return strconv.Itoa(n) + " " + noun + "es"
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nameText := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
