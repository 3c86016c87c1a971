// Package ledger delivers approval events to the ledger service with
// at-least-once semantics under a bounded retry budget.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/config"
	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/geraldhq/bnpl-gateway/internal/utils"
	"github.com/sirupsen/logrus"
)

// ErrDeliveryExhausted means every attempt in the retry budget failed. The
// event is not persisted for later recovery; the caller logs and moves on.
var ErrDeliveryExhausted = errors.New("webhook delivery exhausted")

// EventSink performs a single delivery attempt.
type EventSink interface {
	Send(ctx context.Context, event models.ApprovalEvent) error
}

// Clock abstracts backoff sleeps so tests can run without waiting.
type Clock interface {
	Sleep(d time.Duration)
}

// Metrics receives per-attempt delivery side effects. Implementations must
// never fail; reporting cannot affect the delivery outcome.
type Metrics interface {
	ObserveWebhookLatency(d time.Duration)
	IncWebhookFailure()
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// delivery states
type deliveryState int

const (
	stateAttempting deliveryState = iota
	stateBackingOff
	stateDelivered
	stateExhausted
)

// Client runs the bounded-retry delivery state machine:
// attempting -> backingOff -> attempting -> ... -> delivered | exhausted.
type Client struct {
	sink        EventSink
	clock       Clock
	metrics     Metrics
	maxRetries  int
	backoffBase time.Duration
	log         *logrus.Logger
}

// NewClient initializes a delivery client with the given retry policy.
func NewClient(sink EventSink, clock Clock, metrics Metrics, maxRetries int, backoffBase time.Duration, log *logrus.Logger) *Client {
	if clock == nil {
		clock = realClock{}
	}
	return &Client{
		sink:        sink,
		clock:       clock,
		metrics:     metrics,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		log:         log,
	}
}

// Deliver attempts delivery up to maxRetries times with exponential backoff
// (base, 2*base, 4*base, ...) between attempts. Sleeps follow every failed
// attempt except the last. Returns nil on success or ErrDeliveryExhausted
// once the budget is spent.
func (c *Client) Deliver(ctx context.Context, event models.ApprovalEvent) error {
	state := stateAttempting
	attempt := 0

	for {
		switch state {
		case stateAttempting:
			attempt++
			start := time.Now()
			err := c.sink.Send(ctx, event)
			c.metrics.ObserveWebhookLatency(time.Since(start))

			if err == nil {
				state = stateDelivered
				break
			}
			c.metrics.IncWebhookFailure()
			c.log.Warnf("Webhook attempt %d/%d failed for decision %s: %v",
				attempt, c.maxRetries, event.DecisionID, err)

			if attempt >= c.maxRetries {
				state = stateExhausted
			} else {
				state = stateBackingOff
			}

		case stateBackingOff:
			// 1s, 2s, 4s, 8s, 16s for the default base of 1s.
			c.clock.Sleep(c.backoffBase << (attempt - 1))
			state = stateAttempting

		case stateDelivered:
			c.log.Infof("Webhook delivered for decision %s after %d attempt(s)", event.DecisionID, attempt)
			return nil

		case stateExhausted:
			return fmt.Errorf("%w: %d attempts for decision %s", ErrDeliveryExhausted, attempt, event.DecisionID)
		}
	}
}

// HTTPSink posts events to the ledger webhook URL. Any 2xx response counts as
// delivered; everything else is a retryable failure.
type HTTPSink struct {
	url        string
	hmacSecret string
	client     *http.Client
}

// NewHTTPSink initializes the production event sink.
func NewHTTPSink(cfg *config.Config) *HTTPSink {
	return &HTTPSink{
		url:        cfg.LedgerWebhookURL,
		hmacSecret: cfg.WebhookHMACSecret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send performs one delivery attempt.
func (s *HTTPSink) Send(ctx context.Context, event models.ApprovalEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Gerald-Signature", utils.SignPayload(body, s.hmacSecret))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
