package store

import (
	"context"
	"time"
)

const webhookColumns = `id, name, url, events, secret, is_active, created_at, updated_at`

// ListActiveWebhooks returns all active webhook registrations.
func (q *Queries) ListActiveWebhooks(ctx context.Context) ([]Webhook, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+webhookColumns+` FROM webhooks WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var webhooks []Webhook
	for rows.Next() {
		var w Webhook
		if err := rows.Scan(&w.ID, &w.Name, &w.Url, &w.Events, &w.Secret, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		webhooks = append(webhooks, w)
	}
	return webhooks, rows.Err()
}

// CreateWebhookParams holds parameters for CreateWebhook.
type CreateWebhookParams struct {
	Name      string
	Url       string
	Events    string
	Secret    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateWebhook registers a webhook endpoint and returns the record.
func (q *Queries) CreateWebhook(ctx context.Context, arg CreateWebhookParams) (Webhook, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO webhooks (name, url, events, secret, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+webhookColumns,
		arg.Name, arg.Url, arg.Events, arg.Secret, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)

	var w Webhook
	err := row.Scan(&w.ID, &w.Name, &w.Url, &w.Events, &w.Secret, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}
