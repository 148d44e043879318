// Package cli implements the jsongraph command-line interface.
//
// Commands share one [CLI] value holding the logger, the loaded config and
// the output streams, so tests can drive them through [CLI.SetIO].
//
// # Commands
//
//   - generate: lay out a JSON document and export it (tree, json, yaml, dot, svg, png)
//   - search: resolve a dotted path query against a document
//   - explore: interactive terminal browser with search
//   - watch: regenerate whenever the input file changes
//   - serve: HTTP API for generation sessions
//   - sample, config, cache, completion: helpers
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a timestamped logger ("14:32:01.45") writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one step for debug output.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (elapsed)" at debug level, e.g. "Wrote graph.svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, falling back to
// log.Default() when a command runs without setup (tests, completion).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
