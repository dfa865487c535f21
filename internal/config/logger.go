package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger routes the global logger to w as uncolored console lines and
// sets level as the global level. A nil w means stderr. At debug level and
// below each line also records its caller.
func InitLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	lc := zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).With().Timestamp()
	if level <= zerolog.DebugLevel {
		lc = lc.Caller()
	}
	log.Logger = lc.Logger()
	return log.Logger
}

// InitLogger initialises the global logger at the configured level, or at
// debug level when debug is set.
func (c *Config) InitLogger(w io.Writer, debug bool) zerolog.Logger {
	level := c.Level()
	if debug {
		level = zerolog.DebugLevel
	}
	return InitLogger(w, level)
}
