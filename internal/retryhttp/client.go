package retryhttp

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// ClientConfig encapsulates configuration for outbound HTTP clients.
type ClientConfig struct {
	// Timeout bounds each attempt, including reading the response body.
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt. Zero means a
	// request is attempted exactly once.
	RetryMax int
}

// NewClient returns a standard *http.Client backed by go-retryablehttp that
// logs through the given logger.
func NewClient(config ClientConfig, logger zerolog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = config.RetryMax
	retryClient.HTTPClient.Timeout = config.Timeout
	retryClient.Logger = leveledLogger{logger: logger}
	return retryClient.StandardClient()
}

// leveledLogger adapts a zerolog.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.event(l.logger.Error(), keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.event(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.event(l.logger.Trace(), keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.event(l.logger.Warn(), keysAndValues).Msg(msg)
}

func (leveledLogger) event(
	e *zerolog.Event,
	keysAndValues []interface{},
) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		e = e.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}
	return e
}
