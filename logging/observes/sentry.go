package observes

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

type SentryOptions struct {
	Dsn         string
	Name        string
	Release     string
	Environment string
	SampleRate  float64
}

// NewSentry initializes the sentry client. A nil or empty option skips it.
func NewSentry(opt *SentryOptions) error {
	if opt == nil || opt.Dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              opt.Dsn,
		AttachStacktrace: true,
		SampleRate:       opt.SampleRate,
		ServerName:       opt.Name,
		Release:          opt.Release,
		Environment:      opt.Environment,
	})
}

// FlushSentry waits up to timeout for buffered events to be sent
func FlushSentry(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// SentryHook reports error level log entries to sentry
type SentryHook struct {
	hub *sentry.Hub
}

// NewSentryHook creates a hook on the current sentry hub
func NewSentryHook() *SentryHook {
	return &SentryHook{hub: sentry.CurrentHub()}
}

func (h *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	h.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range entry.Data {
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			scope.SetExtra(k, v)
		}
		scope.SetLevel(sentryLevel(entry.Level))
		h.hub.CaptureMessage(entry.Message)
	})
	return nil
}

func sentryLevel(l logrus.Level) sentry.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelError
	}
}
