package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"github.com/matst80/slask-storefront/pkg/cache"
)

type Config struct {
	BaseUrl           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retries           int           `mapstructure:"retries"`
	RetryWait         time.Duration `mapstructure:"retry_wait"`
	RequestsPerSecond int           `mapstructure:"requests_per_second"`
}

// RestTransport performs backend calls. GET params go in the query string,
// other methods send them as a form body.
type RestTransport struct {
	rl     ratelimit.Limiter
	client *resty.Client
}

func NewRestTransport(cfg Config) *RestTransport {
	client := resty.New().
		SetBaseURL(cfg.BaseUrl).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "slask-storefront")

	rl := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.RequestsPerSecond)
	}
	return &RestTransport{rl: rl, client: client}
}

func (t *RestTransport) PerformRequest(ctx context.Context, method, rawUrl string, params url.Values) (*cache.Response, error) {
	t.rl.Take()

	req := t.client.R().SetContext(ctx)
	if method == http.MethodGet || method == http.MethodDelete {
		req.SetQueryParamsFromValues(params)
	} else if len(params) > 0 {
		req.SetFormDataFromValues(params)
	}

	start := time.Now()
	resp, err := req.Execute(method, rawUrl)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}

	log.WithFields(log.Fields{
		"method":   method,
		"url":      rawUrl,
		"status":   resp.StatusCode(),
		"duration": time.Since(start),
	}).Debug("Backend request")

	return &cache.Response{
		Status: resp.StatusCode(),
		Header: resp.Header().Clone(),
		Body:   resp.Bytes(),
	}, nil
}

func (t *RestTransport) Close() error {
	return t.client.Close()
}
