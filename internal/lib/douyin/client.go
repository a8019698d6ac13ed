// Package douyin is a minimal Douyin web client.
//
// It resolves share links to a user's sec_user_id and fetches the public
// profile record for that id using a caller-supplied session cookie. It does
// not sign requests; Douyin answers unsigned profile requests as long as the
// cookie is a logged-in web session.
//
// Every failure is returned as a *scrapeerr.Error.
package douyin

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/deppfellow/dytool-backend/internal/config"
)

const (
	DefaultBaseURL   = "https://www.douyin.com"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultReferer   = "https://www.douyin.com/"

	maxRedirects = 10
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL    string
	UserAgent  string
	Referer    string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration

	// SlowRequestThreshold of 0 disables slow request warnings.
	SlowRequestThreshold time.Duration

	Logger *zerolog.Logger
}

// OptionsFromConfig maps the douyin config block onto Options.
func OptionsFromConfig(cfg *config.Config, logger *zerolog.Logger) Options {
	opts := Options{
		BaseURL:    cfg.Douyin.BaseURL,
		UserAgent:  cfg.Douyin.UserAgent,
		Referer:    cfg.Douyin.Referer,
		Timeout:    cfg.Douyin.Timeout,
		MaxRetries: cfg.Douyin.MaxRetries,
		RetryWait:  cfg.Douyin.RetryWait,
		Logger:     logger,
	}
	if cfg.Observability != nil {
		opts.SlowRequestThreshold = cfg.Observability.Logging.SlowRequestThreshold
	}
	return opts
}

// Client talks to douyin.com. It is safe for concurrent use.
type Client struct {
	http       *resty.Client
	maxRetries int
	logger     zerolog.Logger
}

// NewClient builds a Client.
//
// Requests carry a fixed browser user agent and referer, never go through an
// outbound proxy (environment proxies included) and follow redirects.
// Transport failures, 5xx/429 answers and empty bodies are retried.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Referer == "" {
		opts.Referer = DefaultReferer
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "douyin").Logger()
	}

	client := resty.New()
	client.SetLogger(restyLogger{logger: logger})
	client.SetBaseURL(opts.BaseURL)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Referer", opts.Referer)
	client.SetTimeout(opts.Timeout)
	client.RemoveProxy()
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))

	client.SetRetryCount(opts.MaxRetries)
	if opts.RetryWait > 0 {
		client.SetRetryWaitTime(opts.RetryWait)
		client.SetRetryMaxWaitTime(4 * opts.RetryWait)
	}
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil || res == nil {
			return true
		}
		status := res.StatusCode()
		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			return true
		}
		return status == http.StatusOK && len(res.Body()) == 0
	})

	threshold := opts.SlowRequestThreshold
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		event := logger.Debug()
		if threshold > 0 && res.Time() > threshold {
			event = logger.Warn()
		}
		event.
			Str("method", res.Request.Method).
			Str("url", res.Request.URL).
			Int("status", res.StatusCode()).
			Int("attempt", res.Request.Attempt).
			Dur("latency", res.Time()).
			Msg("douyin request")
		return nil
	})

	return &Client{
		http:       client,
		maxRetries: opts.MaxRetries,
		logger:     logger,
	}
}

// restyLogger sends resty's own messages (retry attempts, redirect notices)
// to the component logger.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}
