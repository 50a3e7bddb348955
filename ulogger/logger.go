// Package ulogger provides the structured logger used throughout p2psync:
// a small printf-style interface, backed by zerolog, that every component
// depends on instead of the standard library's log package.
package ulogger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the printf-style logging interface every component in this
// module accepts.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// ZLogger wraps zerolog.Logger to satisfy Logger, tagging every line with
// the owning component's name.
type ZLogger struct {
	zerolog.Logger
	component string
}

// New returns a ZLogger for component at the given level ("debug", "info",
// "warn", "error"; defaults to "info").
func New(component string, level ...string) *ZLogger {
	if component == "" {
		component = "p2psync"
	}

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	output.FormatMessage = func(i interface{}) string {
		return "| " + component + " | " + fiToString(i)
	}

	z := &ZLogger{
		Logger:    zerolog.New(output).With().Timestamp().Logger(),
		component: component,
	}

	lvl := "info"
	if len(level) > 0 {
		lvl = level[0]
	}
	z.Logger = z.Logger.Level(parseLevel(lvl))

	return z
}

func fiToString(i interface{}) string {
	s, ok := i.(string)
	if !ok {
		return ""
	}
	return s
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (z *ZLogger) Debugf(format string, args ...interface{}) { z.Logger.Debug().Msgf(format, args...) }
func (z *ZLogger) Infof(format string, args ...interface{})  { z.Logger.Info().Msgf(format, args...) }
func (z *ZLogger) Warnf(format string, args ...interface{})  { z.Logger.Warn().Msgf(format, args...) }
func (z *ZLogger) Errorf(format string, args ...interface{}) { z.Logger.Error().Msgf(format, args...) }

// With returns a child logger tagged with an additional component suffix,
// used when a Peer or the chain Store wants to namespace its own lines
// (e.g. "peer" -> "peer.192.0.2.1:8333").
func (z *ZLogger) With(suffix string) *ZLogger {
	child := New(z.component + "." + suffix)
	child.Logger = child.Logger.Level(z.Logger.GetLevel())
	return child
}

// Nop is a Logger that discards everything; useful as a zero-value default
// and in tests that don't care about log output.
type Nop struct{}

func (Nop) Debugf(string, ...interface{}) {}
func (Nop) Infof(string, ...interface{})  {}
func (Nop) Warnf(string, ...interface{})  {}
func (Nop) Errorf(string, ...interface{}) {}
