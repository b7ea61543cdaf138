package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/carelinehq/careline/backend/internal/config"
)

// ErrExhausted indicates every attempt against the classification
// service failed.
var ErrExhausted = errors.New("classification request retries exhausted")

// Reply is the expected shape of a successful service response. Every
// field is optional; Classify supplies fallbacks for whatever is
// missing.
type Reply struct {
	Status     string `json:"status"`
	Response   string `json:"response"`
	SourceInfo string `json:"source_info"`
}

// Client calls the remote support-classification service, retrying
// failed attempts with exponential backoff.
type Client struct {
	cfg        config.ClassifierConfig
	httpClient *http.Client

	// sleep is swapped out by tests to observe backoff timing.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client from the classifier configuration.
func NewClient(cfg config.ClassifierConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Execute POSTs the user's text to the service and returns the parsed
// reply. Up to MaxAttempts tries are made, with the wait doubling from
// BackoffBase between them; each call carries its own retry budget.
// After the final failure the returned error wraps ErrExhausted and
// records the last underlying cause.
func (c *Client) Execute(ctx context.Context, text string) (*Reply, error) {
	var lastErr error
	delay := c.cfg.BackoffBase

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		reply, err := c.attempt(ctx, text)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if attempt == c.cfg.MaxAttempts-1 {
			break
		}

		log.Printf("[classifier] attempt %d/%d failed, retrying in %v: %v",
			attempt+1, c.cfg.MaxAttempts, delay, err)

		if err := c.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
		delay *= 2
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrExhausted, c.cfg.MaxAttempts, lastErr)
}

// attempt performs one POST. A completed transport with a non-2xx
// status counts as a failure so the retry loop treats it like any
// other transient error.
func (c *Client) attempt(ctx context.Context, text string) (*Reply, error) {
	body, err := json.Marshal(map[string]string{"user_message": text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.cfg.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d from classification service", resp.StatusCode)
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		// A successful status with an unparseable body downgrades to
		// the substitute text instead of entering the failure path;
		// only transport or status failures may exhaust retries.
		log.Printf("[classifier] unparseable response body: %v", err)
		return &Reply{}, nil
	}

	return &reply, nil
}
