package observes

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

func TestNewTracer_Validation(t *testing.T) {
	if _, err := NewTracer(nil); err == nil {
		t.Error("NewTracer(nil) should fail")
	}
	if _, err := NewTracer(&TracerOption{Name: "pagectl"}); err == nil {
		t.Error("NewTracer() without endpoint should fail")
	}
}

func TestNewSentry_Skipped(t *testing.T) {
	if err := NewSentry(nil); err != nil {
		t.Errorf("NewSentry(nil) error = %v", err)
	}
	if err := NewSentry(&SentryOptions{}); err != nil {
		t.Errorf("NewSentry(empty) error = %v", err)
	}
}

func TestSentryHook_Levels(t *testing.T) {
	h := NewSentryHook()
	for _, l := range h.Levels() {
		if l > logrus.ErrorLevel {
			t.Errorf("hook fires at %s", l)
		}
	}
	if sentryLevel(logrus.FatalLevel) != sentry.LevelFatal || sentryLevel(logrus.ErrorLevel) != sentry.LevelError {
		t.Error("unexpected sentry level mapping")
	}
	entry := logrus.NewEntry(logrus.New())
	entry.Message = "no client bound"
	if err := h.Fire(entry); err != nil {
		t.Errorf("Fire() error = %v", err)
	}
}
