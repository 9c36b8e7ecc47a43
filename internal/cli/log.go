package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps to the hundredth of a second,
// filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// component derives a prefixed logger for one part of the pipeline, e.g.
// "layout" or "serve".
func component(l *log.Logger, name string) *log.Logger {
	return l.WithPrefix(name)
}

// stage times one step of a command and logs its result with the elapsed time
// attached as a structured field.
type stage struct {
	logger *log.Logger
	start  time.Time
}

func startStage(l *log.Logger) *stage {
	return &stage{logger: l, start: time.Now()}
}

func (s *stage) elapsed() time.Duration {
	return time.Since(s.start).Round(time.Millisecond)
}

// done logs msg at info level, e.g.
//
//	INFO layout: simulated nodes=42 iterations=310 elapsed=18ms
func (s *stage) done(msg string, keyvals ...any) {
	s.logger.Info(msg, append(keyvals, "elapsed", s.elapsed())...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when the context carries none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}
