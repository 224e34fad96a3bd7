// Package logx configures the global zerolog logger.
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/config"
)

type Options struct {
	Environment config.Environment
	// Out defaults to stderr.
	Out io.Writer
}

// Init replaces log.Logger: JSON at info level in production, a console
// writer at debug level otherwise.
func Init(opts Options) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Environment.IsProduction() {
		log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(cw).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
}
