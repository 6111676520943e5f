// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Delivery configuration constants
const (
	MaxAttempts    = 3
	InitialBackoff = 2 * time.Second
	MaxBackoff     = 30 * time.Second
	RequestTimeout = 30 * time.Second
	MaxResponseLen = 10 * 1024
	UserAgent      = "contentforge-menus/1.0"
)

// deliveryResult is the outcome of a single HTTP attempt.
type deliveryResult struct {
	success     bool
	statusCode  int
	err         error
	shouldRetry bool
}

// httpClient is the shared HTTP client for webhook delivery.
var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// processDelivery posts the payload, retrying transient failures with
// exponential backoff. Deliveries are best-effort and not persisted;
// exhausting the attempts only logs a warning.
func (d *Dispatcher) processDelivery(ctx context.Context, delivery *QueuedDelivery) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		result := d.attemptDelivery(ctx, delivery)
		if result.success {
			d.logger.Info("webhook delivered",
				"delivery_id", delivery.DeliveryID,
				"webhook_id", delivery.WebhookID,
				"status_code", result.statusCode,
				"attempt", attempt)
			return
		}

		if !result.shouldRetry || attempt == MaxAttempts {
			d.logger.Warn("webhook delivery failed",
				"delivery_id", delivery.DeliveryID,
				"webhook_id", delivery.WebhookID,
				"attempts", attempt,
				"error", result.err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case <-time.After(backoff(attempt)):
		}
	}
}

// attemptDelivery performs one HTTP POST of the signed payload.
func (d *Dispatcher) attemptDelivery(ctx context.Context, delivery *QueuedDelivery) deliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.URL, bytes.NewReader(delivery.Payload))
	if err != nil {
		return deliveryResult{
			err:         fmt.Errorf("creating request: %w", err),
			shouldRetry: false,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Webhook-Signature", GenerateSignature(delivery.Payload, delivery.Secret))
	req.Header.Set("X-Webhook-Event", delivery.Event)
	req.Header.Set("X-Webhook-Delivery-ID", delivery.DeliveryID)

	resp, err := httpClient.Do(req)
	if err != nil {
		return deliveryResult{
			err:         fmt.Errorf("request failed: %w", err),
			shouldRetry: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseLen))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return deliveryResult{success: true, statusCode: resp.StatusCode}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// 408 and 429 are the only client errors worth retrying.
		retry := resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests
		return deliveryResult{
			statusCode:  resp.StatusCode,
			err:         fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			shouldRetry: retry,
		}
	default:
		return deliveryResult{
			statusCode:  resp.StatusCode,
			err:         fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			shouldRetry: true,
		}
	}
}

// backoff returns the delay before the next attempt: 2s, 4s, 8s, capped.
func backoff(attempt int) time.Duration {
	d := time.Duration(float64(InitialBackoff) * math.Pow(2, float64(attempt-1)))
	if d > MaxBackoff {
		d = MaxBackoff
	}
	return d
}
