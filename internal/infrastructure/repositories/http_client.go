package repositories

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
)

const (
	retryWaitMin = 500 * time.Millisecond
	retryWaitMax = 5 * time.Second
)

// NewHTTPClient builds the HTTP client shared by all version sources. Every
// attempt is bounded by the configured timeout. Transient failures (network
// errors, 5xx) are retried up to the configured count; 4xx responses,
// including quota rejections, are returned to the caller untouched.
func NewHTTPClient(settings *entities.Settings) *http.Client {
	base := cleanhttp.DefaultPooledClient()
	base.Timeout = settings.Upstream.Timeout

	client := retryablehttp.NewClient()
	client.HTTPClient = base
	client.RetryMax = settings.Upstream.Retries
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.CheckRetry = transientRetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = retryLogger{}

	return client.StandardClient()
}

func transientRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil && resp != nil && resp.StatusCode < http.StatusInternalServerError {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// retryLogger routes retryablehttp's leveled logs to logrus at debug level.
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fieldsOf(keysAndValues)).Debug(msg)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fieldsOf(keysAndValues)).Debug(msg)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fieldsOf(keysAndValues)).Debug(msg)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fieldsOf(keysAndValues)).Warn(msg)
}

func fieldsOf(keysAndValues []interface{}) logger.Fields {
	fields := make(logger.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
