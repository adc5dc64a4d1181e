package log

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gobuffalo/buffalo"
	"github.com/sirupsen/logrus"
)

const ContextKeySentryHub = "sentry_hub"

// fields promoted from a log entry to searchable Sentry tags
var taggedFields = []string{"claim_id", "booking_id", "step", "event"}

var sentryLevels = map[logrus.Level]sentry.Level{
	logrus.PanicLevel: sentry.LevelFatal,
	logrus.FatalLevel: sentry.LevelFatal,
	logrus.ErrorLevel: sentry.LevelError,
	logrus.WarnLevel:  sentry.LevelWarning,
}

// HTTP statuses that are normal settlement outcomes: missing actor, unknown claim, claim already locked or
// settled, booking not eligible
var expectedStatuses = map[int]bool{
	http.StatusUnauthorized:        true,
	http.StatusNotFound:            true,
	http.StatusConflict:            true,
	http.StatusUnprocessableEntity: true,
}

// SentryHook forwards warnings and errors to Sentry
type SentryHook struct {
	hub *sentry.Hub
}

// SentryMiddleware gives each request its own hub and reports panics before re-raising them
func SentryMiddleware(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		req := c.Request()
		hub := sentry.GetHubFromContext(req.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}
		hub.Scope().SetRequest(req)
		c.Set(ContextKeySentryHub, hub)

		defer func() {
			p := recover()
			if p == nil {
				return
			}
			ctx := context.WithValue(req.Context(), sentry.RequestContextKey, req)
			if id := hub.RecoverWithContext(ctx, p); id != nil {
				hub.Flush(2 * time.Second)
			}
			panic(p)
		}()

		return next(c)
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if status, ok := entry.Data["status"].(int); ok && expectedStatuses[status] {
		return nil
	}

	event := sentry.NewEvent()
	event.Level = sentryLevels[entry.Level]
	event.Message = entry.Message
	event.Extra = entry.Data
	event.Tags = eventTags(entry.Data)

	if c, ok := entry.Context.(buffalo.Context); ok {
		event.Request = sentry.NewRequest(c.Request())
	}

	sentry.CaptureEvent(event)
	return nil
}

func eventTags(data logrus.Fields) map[string]string {
	tags := map[string]string{}
	for _, name := range taggedFields {
		if v, ok := data[name]; ok {
			tags[name] = fmt.Sprint(v)
		}
	}
	return tags
}

// SetActor identifies the gateway-authenticated caller on subsequent events
func (h *SentryHook) SetActor(id string, roles []string) {
	h.hub.Scope().SetUser(sentry.User{ID: id})
	h.hub.Scope().SetTag("roles", strings.Join(roles, ","))
}

// NewSentryHook initializes the Sentry client, or returns nil when SENTRY_DSN is not set
func NewSentryHook(env, commit string) *SentryHook {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return nil
	}

	opts := sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          commit,
		TracesSampleRate: 1.0,
	}
	if err := sentry.Init(opts); err != nil {
		panic(fmt.Sprintf("failed to initialize sentry: %s", err))
	}

	return &SentryHook{hub: sentry.CurrentHub()}
}
