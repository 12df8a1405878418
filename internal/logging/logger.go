package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. An empty path logs to stdout; a path without
// an extension gets a dated .log suffix.
func New(level, logFilePath string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var target io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if logFilePath != "" {
		path := logFilePath
		if filepath.Ext(path) == "" {
			path = logFilePath + time.Now().Format("-2006-01-02") + ".log"
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		target = file
		closer = file
	}

	return zerolog.New(target).Level(lvl).With().Timestamp().Logger(), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
