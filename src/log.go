package linklab

/*------------------------------------------------------------------
 *
 * Purpose:	Operational logging.
 *
 * Description:	Connections, transport failures, summaries and so on go
 *		through a charmbracelet logger on stderr.  Frame results
 *		are not log messages; the receiver writes those as plain
 *		lines so they can be piped or parsed.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const DEFAULT_LOG_LEVEL = "info"

func parseLogLevel(level string) (log.Level, error) {
	if level == "" {
		level = DEFAULT_LOG_LEVEL
	}

	var lvl, err = log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return lvl, fmt.Errorf("log level %q: %w", level, err)
	}

	return lvl, nil
}

// NewLogger builds a logger writing to w with the given component prefix.
func NewLogger(w io.Writer, level string, prefix string) (*log.Logger, error) {
	var lvl, err = parseLogLevel(level)
	if err != nil {
		return nil, err
	}

	var logger = log.NewWithOptions(w, log.Options{ //nolint:exhaustruct
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	return logger, nil
}

// discardLogger is for tests and library callers that don't care.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel}) //nolint:exhaustruct
}
