package utils

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a thin keyed logger over zerolog.
type Logger struct {
	l zerolog.Logger
}

func NewLogger() *Logger {
	return &Logger{l: zerolog.New(os.Stdout).With().Timestamp().Logger()}
}

// SetOutput redirects log output (used in tests).
func (lg *Logger) SetOutput(w io.Writer) {
	lg.l = lg.l.Output(w)
}

func (lg *Logger) Info(msg string, kv ...any)  { emit(lg.l.Info(), msg, kv) }
func (lg *Logger) Warn(msg string, kv ...any)  { emit(lg.l.Warn(), msg, kv) }
func (lg *Logger) Error(msg string, kv ...any) { emit(lg.l.Error(), msg, kv) }

func emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
