package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements the ports.Logger interface using zerolog.
type ZeroLogger struct {
	logger zerolog.Logger
}

// New creates a console ZeroLogger. Verbose enables debug output; otherwise
// only warnings and errors are emitted so CLI output stays clean.
func New(verbose bool) *ZeroLogger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &ZeroLogger{
		logger: zerolog.New(output).Level(level).With().Timestamp().Logger(),
	}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *ZeroLogger) Error(msg string, err error, fields map[string]interface{}) {
	emit(l.logger.Error().Err(err), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
