package log

import (
	"io"
	"os"

	buffalologger "github.com/gobuffalo/logger"
	"github.com/sirupsen/logrus"

	"github.com/silinternational/claims-settlement-api/domain"
)

// Fields is an alias so callers don't need to import logrus
type Fields = logrus.Fields

// Entry is a log entry carrying fields
type Entry = logrus.Entry

var (
	logger     = logrus.New()
	sentryHook *SentryHook
)

func init() {
	logger.SetOutput(os.Stdout)
	if domain.Env.GoEnv != domain.EnvDevelopment {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
}

// Init attaches the Sentry hook, if SENTRY_DSN is configured
func Init(commit string) {
	if domain.Env.GoEnv == domain.EnvTest {
		return
	}
	sentryHook = NewSentryHook(domain.Env.GoEnv, commit)
	if sentryHook != nil {
		logger.AddHook(sentryHook)
	}
}

// SetOutput redirects log output, mostly useful in tests
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetActor identifies the actor on subsequent Sentry events
func SetActor(id string, roles []string) {
	if sentryHook == nil {
		return
	}
	sentryHook.SetActor(id, roles)
}

func WithFields(fields Fields) *Entry {
	return logger.WithFields(fields)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

// BuffaloLogger returns the application logger in the form buffalo expects, so request logs share its format
// and hooks
func BuffaloLogger() buffalologger.FieldLogger {
	return buffalologger.Logrus{FieldLogger: logger}
}
