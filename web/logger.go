package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// requestLogger formats chi request logs as logrus entries.
type requestLogger struct {
	logger logrus.FieldLogger
}

func (l requestLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestEntry{
		entry: l.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}),
	}
}

type requestEntry struct {
	entry *logrus.Entry
}

func (e *requestEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	e.entry.WithFields(logrus.Fields{
		"status":   status,
		"bytes":    bytes,
		"duration": elapsed,
	}).Debugln("request")
}

func (e *requestEntry) Panic(v interface{}, stack []byte) {
	e.entry.WithField("stack", string(stack)).Errorf("panic serving request: %v", v)
}
