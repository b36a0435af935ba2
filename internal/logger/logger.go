package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger writes levelled lines to a single output
type Logger struct {
	mu     sync.Mutex
	debug  bool
	color  bool
	w      io.Writer
	output *log.Logger
}

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
)

// New creates a logger writing to w. Colour codes are only used for terminals.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{
		debug:  debug,
		color:  isTerminal(w),
		w:      w,
		output: log.New(w, "", log.LstdFlags|log.Lmsgprefix),
	}
}

// Default logs to stdout, with debug output when DEBUG=true
var Default = New(os.Stdout, os.Getenv("DEBUG") == "true")

func (l *Logger) Info(format string, v ...any) {
	l.write(green, "[INFO] ", format, v...)
}

func (l *Logger) Warning(format string, v ...any) {
	l.write(yellow, "[WARNING] ", format, v...)
}

func (l *Logger) Error(format string, v ...any) {
	l.write(red, "[ERROR] ", format, v...)
}

func (l *Logger) Debug(format string, v ...any) {
	if l.debug {
		l.write(blue, "[DEBUG] ", format, v...)
	}
}

// SetDebug toggles debug output
func (l *Logger) SetDebug(debug bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = debug
}

// Writer adapts the logger to an io.Writer at INFO level, for libraries that log through one
func (l *Logger) Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		msg := string(p)
		if n := len(msg); n > 0 && msg[n-1] == '\n' {
			msg = msg[:n-1]
		}
		l.Info("%s", msg)
		return len(p), nil
	})
}

// AddFile appends every line to outputFile as well as the current output.
// Colour is turned off so the file stays plain text.
func (l *Logger) AddFile(outputFile string) error {
	file, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = false
	l.w = io.MultiWriter(l.w, file)
	l.output.SetOutput(l.w)
	return nil
}

func (l *Logger) write(color, prefix, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.color {
		prefix = color + prefix + reset
	}
	l.output.SetPrefix(prefix)
	l.output.Println(fmt.Sprintf(format, v...))
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
