// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Options struct {
	Service      string
	Level        string
	LogstashAddr string
	// LogstashLevel is the lowest level shipped to Logstash. Empty ships
	// everything that passes Level.
	LogstashLevel string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// New returns a JSON logger writing to Output and, when LogstashAddr is set,
// mirroring every line to Logstash. The returned closer releases the
// Logstash connection and is never nil.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	level := parseLevel(opts.Level, zerolog.InfoLevel)

	var closer io.Closer = nopCloser{}
	writer := out
	if addr := strings.TrimSpace(opts.LogstashAddr); addr != "" {
		ls, err := NewLogstashWriter(addr, WithShipLevel(parseLevel(opts.LogstashLevel, level)))
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		writer = zerolog.MultiLevelWriter(out, ls)
		closer = ls
	}

	logger := zerolog.New(writer).Level(level).With().
		Str("service", opts.Service).
		Timestamp().
		Logger()
	return logger, closer, nil
}

func parseLevel(value string, fallback zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || level == zerolog.NoLevel {
		return fallback
	}
	return level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
