// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/contentforge/menus/internal/store"
)

// Dispatcher fans menu events out to subscribed webhook endpoints
// through a pool of delivery workers.
type Dispatcher struct {
	queries *store.Queries
	logger  *slog.Logger
	queue   chan *QueuedDelivery
	workers int
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// QueuedDelivery is one delivery waiting for a worker.
type QueuedDelivery struct {
	DeliveryID string
	WebhookID  int64
	Event      string
	Payload    []byte
	URL        string
	Secret     string
}

// Config holds dispatcher configuration.
type Config struct {
	Workers int
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{Workers: 3}
}

// NewDispatcher creates a webhook dispatcher.
func NewDispatcher(db *sql.DB, logger *slog.Logger, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		queries: store.New(db),
		logger:  logger,
		queue:   make(chan *QueuedDelivery, 100),
		workers: cfg.Workers,
		done:    make(chan struct{}),
	}
}

// Start launches the delivery workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting webhook dispatcher", "workers", d.workers)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops the dispatcher and waits for workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.logger.Info("stopping webhook dispatcher")
	close(d.done)
	d.wg.Wait()
	d.logger.Info("webhook dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		case <-ctx.Done():
			return
		case delivery := <-d.queue:
			d.logger.Debug("processing webhook delivery",
				"worker_id", id,
				"delivery_id", delivery.DeliveryID,
				"event", delivery.Event)
			d.processDelivery(ctx, delivery)
		}
	}
}

// Dispatch sends an event to every active webhook subscribed to its type.
func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) error {
	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()

	if !running {
		d.logger.Warn("dispatcher not running, dropping event", "event_type", event.Type)
		return nil
	}

	webhooks, err := d.queries.ListActiveWebhooks(ctx)
	if err != nil {
		d.logger.Error("failed to list webhooks", "error", err, "event_type", event.Type)
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to marshal event payload", "error", err, "event_type", event.Type)
		return err
	}

	for _, wh := range webhooks {
		if !subscribed(wh.Events, event.Type) {
			continue
		}

		qd := &QueuedDelivery{
			DeliveryID: uuid.New().String(),
			WebhookID:  wh.ID,
			Event:      event.Type,
			Payload:    payload,
			URL:        wh.Url,
			Secret:     wh.Secret,
		}

		select {
		case d.queue <- qd:
			d.logger.Debug("delivery queued",
				"delivery_id", qd.DeliveryID,
				"webhook_id", wh.ID,
				"event_type", event.Type)
		default:
			d.logger.Warn("delivery queue full, dropping delivery",
				"delivery_id", qd.DeliveryID,
				"webhook_id", wh.ID)
		}
	}

	return nil
}

// DispatchEvent dispatches an event with the given type and data.
func (d *Dispatcher) DispatchEvent(ctx context.Context, eventType string, data any) error {
	return d.Dispatch(ctx, NewEvent(eventType, data))
}

// subscribed reports whether the JSON events list contains eventType. An
// empty list subscribes to everything.
func subscribed(eventsJSON, eventType string) bool {
	if eventsJSON == "" || eventsJSON == "[]" {
		return true
	}
	var events []string
	if err := json.Unmarshal([]byte(eventsJSON), &events); err != nil {
		return false
	}
	for _, e := range events {
		if e == eventType {
			return true
		}
	}
	return false
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature.
func VerifySignature(payload []byte, signature, secret string) bool {
	expected := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
