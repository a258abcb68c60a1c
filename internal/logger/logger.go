// Package logger sets up structured logging: text records go to a rotating log file and a bounded
// in-memory tail that the overlay can show.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFilePath is the default log file, relative to the working directory.
const LogFilePath = "logs/navigator.log"

// DefaultMaxLines is how many recent lines Lines keeps.
const DefaultMaxLines = 200

// Logger is an io.Writer that fans out to a file and keeps the most recent lines in memory.
type Logger struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
	partial  []byte
	out      io.Writer
	closer   io.Closer
	slog     *slog.Logger
}

// New returns a logger writing to a rotating file at path, creating its directory. An empty path
// disables the file and keeps only the in-memory tail.
func New(path string, level slog.Level) (*Logger, error) {
	if path == "" {
		return NewWithWriter(io.Discard, level), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("log directory: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}
	l := NewWithWriter(lj, level)
	l.closer = lj
	return l, nil
}

// NewWithWriter returns a logger that forwards records to w.
func NewWithWriter(w io.Writer, level slog.Level) *Logger {
	l := &Logger{maxLines: DefaultMaxLines, out: w}
	l.slog = slog.New(slog.NewTextHandler(l, &slog.HandlerOptions{Level: level}))
	return l
}

// Slog returns the structured logger bound to this sink.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Write implements io.Writer. Complete lines are added to the tail; a trailing partial line is
// held until its newline arrives.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.partial = append(l.partial, p...)
	for {
		i := bytes.IndexByte(l.partial, '\n')
		if i < 0 {
			break
		}
		l.push(string(l.partial[:i]))
		l.partial = l.partial[i+1:]
	}
	if len(l.partial) == 0 {
		l.partial = nil
	}
	return l.out.Write(p)
}

func (l *Logger) push(line string) {
	if len(l.lines) == l.maxLines {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:len(l.lines)-1]
	}
	l.lines = append(l.lines, line)
}

// Lines returns a copy of the stored lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Tail returns up to n of the most recent lines.
func (l *Logger) Tail(n int) []string {
	lines := l.Lines()
	if n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
