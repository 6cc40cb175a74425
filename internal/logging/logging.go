package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/koki-develop/resizer/internal/config"
)

type Options struct {
	Config config.Logging
	Debug  bool
	// Fallback receives log output when no log file is configured.
	Fallback io.Writer
}

// New builds the application logger. Debug mode forces the debug level and a
// coloured text formatter. The returned close function releases the log file,
// if one was opened.
func New(opt Options) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	closer := func() error { return nil }

	out := opt.Fallback
	if out == nil {
		out = io.Discard
	}
	if opt.Config.File != "" {
		if err := os.MkdirAll(filepath.Dir(opt.Config.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opt.Config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", opt.Config.File, err)
		}
		out = f
		closer = f.Close
	}
	logger.SetOutput(out)

	if opt.Debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   opt.Config.File == "",
		})
		return logger, closer, nil
	}

	level, err := logrus.ParseLevel(opt.Config.Level)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	if opt.Config.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger, closer, nil
}
