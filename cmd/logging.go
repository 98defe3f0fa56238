package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattsolo1/grove-core/logging"
	"github.com/sirupsen/logrus"
)

func parseLogLevel(level string) (logrus.Level, error) {
	if strings.TrimSpace(level) == "" {
		return logrus.WarnLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// newCommandLogger builds the logger handed to the transport and controller.
// In TUI mode output goes to the configured log file, or nowhere, so log lines
// never land on the alternate screen.
func newCommandLogger(cfg *ChatConfig, tuiMode bool) (*logrus.Logger, io.Closer, error) {
	lvl, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetOutput(os.Stderr)

	var closer io.Closer = io.NopCloser(nil)
	if tuiMode {
		var out io.Writer = io.Discard
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, nil, fmt.Errorf("open log file: %w", err)
			}
			out = f
			closer = f
		}
		logger.SetOutput(out)
		logger.SetFormatter(&logrus.JSONFormatter{})
		// Keep grove-core loggers off the screen as well
		logging.SetGlobalOutput(out)
	}

	return logger, closer, nil
}
