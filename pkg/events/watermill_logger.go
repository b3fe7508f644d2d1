package events

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/logger"
)

// watermillLogger routes Watermill's logs into logger.Logger. Watermill is
// chatty at info level, so everything below error is logged as debug.
type watermillLogger struct{ log logger.Logger }

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Error(msg, append(args(fields), "error", err)...)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields)  { l.log.Debug(msg, args(fields)...) }
func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) { l.log.Debug(msg, args(fields)...) }
func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) { l.log.Debug(msg, args(fields)...) }

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: l.log.With(args(fields)...)}
}

func args(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
