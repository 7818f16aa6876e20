// Package logger provides the process wide logrus logger. Entries written
// through the context aware methods carry the trace id and version fields.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ncobase/pagination/logging/logger/config"
	"github.com/sirupsen/logrus"
)

// Key constants
const (
	VersionKey = "version"
)

// Logger wraps logrus with context aware helpers
type Logger struct {
	*logrus.Logger

	mu      sync.Mutex
	version string
	logFile *os.File
	logPath string
	stop    chan struct{}
}

var (
	standardLogger *Logger
	once           sync.Once
)

// StdLogger returns the singleton logger instance
func StdLogger() *Logger {
	once.Do(func() {
		standardLogger = newLogger()
	})
	return standardLogger
}

func newLogger() *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	return l
}

// New initializes the standard logger with cfg and returns its cleanup
func New(cfg *config.Config) (func(), error) {
	return StdLogger().Init(cfg)
}

// SetVersion sets the version for logging
func (l *Logger) SetVersion(v string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.version = v
}

// Init applies cfg to the logger. A nil cfg keeps the defaults.
func (l *Logger) Init(c *config.Config) (func(), error) {
	if c == nil {
		return func() {}, nil
	}

	if c.Level > 0 {
		l.SetLevel(logrus.Level(c.Level))
	}

	switch c.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	switch c.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		if c.OutputFile == "" {
			return nil, fmt.Errorf("logger output is file but output_file is empty")
		}
		l.logPath = c.OutputFile
		if err := l.setupLogFile(); err != nil {
			return nil, err
		}
		l.stop = make(chan struct{})
		go l.periodicLogRotation(l.stop)
	default:
		l.SetOutput(os.Stdout)
	}

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.stop != nil {
			close(l.stop)
			l.stop = nil
		}
		if l.logFile != nil {
			_ = l.logFile.Close()
			l.logFile = nil
		}
	}, nil
}

func (l *Logger) setupLogFile() error {
	if err := os.MkdirAll(filepath.Dir(l.logPath), 0o755); err != nil {
		return err
	}
	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			return err
		}
	}

	logFilePath := fmt.Sprintf("%s.%s.log", strings.TrimSuffix(l.logPath, ".log"), time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}

	l.logFile = f
	l.Logger.SetOutput(f)
	return nil
}

func (l *Logger) periodicLogRotation(stop <-chan struct{}) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := l.rotateLog(); err != nil {
				l.Logger.Errorf("Error rotating log: %v", err)
			}
		}
	}
}

// entryFromContext creates a new log entry with fields from context
func (l *Logger) entryFromContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}

	if traceID := getTraceID(ctx); traceID != "" {
		fields[traceKey] = traceID
	}

	l.mu.Lock()
	version := l.version
	l.mu.Unlock()
	if version != "" {
		fields[VersionKey] = version
	}

	return l.WithContext(ctx).WithFields(fields)
}

func (l *Logger) log(ctx context.Context, level logrus.Level, args ...any) {
	l.entryFromContext(ctx).Log(level, args...)
}

func (l *Logger) logf(ctx context.Context, level logrus.Level, format string, args ...any) {
	l.entryFromContext(ctx).Logf(level, format, args...)
}

func (l *Logger) Debug(ctx context.Context, args ...any) {
	l.log(ctx, logrus.DebugLevel, args...)
}
func (l *Logger) Info(ctx context.Context, args ...any) {
	l.log(ctx, logrus.InfoLevel, args...)
}
func (l *Logger) Warn(ctx context.Context, args ...any) {
	l.log(ctx, logrus.WarnLevel, args...)
}
func (l *Logger) Error(ctx context.Context, args ...any) {
	l.log(ctx, logrus.ErrorLevel, args...)
}

func (l *Logger) Debugf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.DebugLevel, format, args...)
}
func (l *Logger) Infof(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.InfoLevel, format, args...)
}
func (l *Logger) Warnf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.WarnLevel, format, args...)
}
func (l *Logger) Errorf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.ErrorLevel, format, args...)
}
func (l *Logger) Fatalf(ctx context.Context, format string, args ...any) {
	l.logf(ctx, logrus.FatalLevel, format, args...)
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(out io.Writer) {
	l.Logger.SetOutput(out)
}

// Package level helpers on the standard logger

func SetVersion(v string) { StdLogger().SetVersion(v) }

func EntryWithFields(ctx context.Context, fields logrus.Fields) *logrus.Entry {
	return StdLogger().entryFromContext(ctx).WithFields(fields)
}

func Debug(ctx context.Context, args ...any) { StdLogger().Debug(ctx, args...) }
func Info(ctx context.Context, args ...any)  { StdLogger().Info(ctx, args...) }
func Warn(ctx context.Context, args ...any)  { StdLogger().Warn(ctx, args...) }
func Error(ctx context.Context, args ...any) { StdLogger().Error(ctx, args...) }

func Debugf(ctx context.Context, format string, args ...any) {
	StdLogger().Debugf(ctx, format, args...)
}
func Infof(ctx context.Context, format string, args ...any) {
	StdLogger().Infof(ctx, format, args...)
}
func Warnf(ctx context.Context, format string, args ...any) {
	StdLogger().Warnf(ctx, format, args...)
}
func Errorf(ctx context.Context, format string, args ...any) {
	StdLogger().Errorf(ctx, format, args...)
}
func Fatalf(ctx context.Context, format string, args ...any) {
	StdLogger().Fatalf(ctx, format, args...)
}
