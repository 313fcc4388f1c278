// Package delivery provides a sink that posts crash reports to a notify endpoint.
// Transient failures are retried with backoff.
package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

const (
	defaultEndpoint     = "https://notify.playvane.com/"
	defaultRetryCount   = 2
	defaultRetryBase    = 500 * time.Millisecond
	defaultRetryMaxWait = 8 * time.Second

	headerAPIKey         = "Unisen-Api-Key"
	headerPayloadVersion = "Unisen-Payload-Version"
	headerSentAt         = "Unisen-Sent-At"
)

// DeliverySinkOption configures the delivery sink.
type DeliverySinkOption func(*deliverySinkConfig)

type deliverySinkConfig struct {
	endpoint   string
	timeout    time.Duration
	retryCount int
	notifier   unisen.NotifierInfo
}

// WithEndpoint sets the notify endpoint URL.
func WithEndpoint(endpoint string) DeliverySinkOption {
	return func(c *deliverySinkConfig) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-request timeout (default: 15s).
func WithTimeout(d time.Duration) DeliverySinkOption {
	return func(c *deliverySinkConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryCount sets how many times a failed request is retried (default: 2).
func WithRetryCount(n int) DeliverySinkOption {
	return func(c *deliverySinkConfig) {
		if n >= 0 {
			c.retryCount = n
		}
	}
}

// WithNotifier overrides the notifier identity sent in payloads.
func WithNotifier(info unisen.NotifierInfo) DeliverySinkOption {
	return func(c *deliverySinkConfig) {
		c.notifier = info
	}
}

// isRetryableResp retries on transport errors, 5xx, rate limiting and timeouts.
func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

// deliverySink posts crash reports to the notify endpoint.
type deliverySink struct {
	apiKey   string
	notifier unisen.NotifierInfo
	http     *resty.Client
}

// NewDeliverySink creates a sink that posts each event to the notify endpoint.
// Each Write is a synchronous HTTP request; wrap with the async sink for
// fire-and-forget delivery.
func NewDeliverySink(apiKey string, opts ...DeliverySinkOption) unisen.Sink {
	cfg := &deliverySinkConfig{
		endpoint:   defaultEndpoint,
		timeout:    15 * time.Second,
		retryCount: defaultRetryCount,
		notifier:   unisen.DefaultNotifier(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.endpoint = strings.TrimRight(cfg.endpoint, "/")

	httpClient := resty.New().
		SetBaseURL(cfg.endpoint).
		SetTimeout(cfg.timeout).
		SetRetryCount(cfg.retryCount).
		SetRetryWaitTime(defaultRetryBase).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		AddRetryCondition(isRetryableResp)

	return &deliverySink{
		apiKey:   apiKey,
		notifier: cfg.notifier,
		http:     httpClient,
	}
}

// Write posts the crash report and returns an error on rejection.
func (s *deliverySink) Write(ctx context.Context, event unisen.Event) error {
	payload := unisen.BuildPayload(s.apiKey, s.notifier, event)

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(headerAPIKey, s.apiKey).
		SetHeader(headerPayloadVersion, unisen.PayloadVersion).
		SetHeader(headerSentAt, time.Now().UTC().Format(time.RFC3339)).
		SetBody(payload).
		Post("")
	if err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		logger.WithFields(map[string]interface{}{
			"event_id": event.EventID,
			"status":   resp.StatusCode(),
		}).Warn("Notify endpoint rejected crash report")
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	return nil
}

// Flush is a no-op for the delivery sink (writes are synchronous).
func (s *deliverySink) Flush(ctx context.Context) error {
	return nil
}

// Close releases idle connections held by the HTTP client.
func (s *deliverySink) Close() error {
	s.http.GetClient().CloseIdleConnections()
	return nil
}
