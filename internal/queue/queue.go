// Package queue pushes submission events onto a Redis list so moderation
// tooling can consume completed submissions without scraping the review chat.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"evidencebot/internal/bot"

	"github.com/redis/go-redis/v9"
)

// Publisher implements bot.SubmissionSink against a Redis list.
type Publisher struct {
	client *redis.Client
	list   string
}

// New creates a publisher pushing onto the named list.
func New(client *redis.Client, list string) *Publisher {
	return &Publisher{client: client, list: list}
}

// Publish appends one JSON-encoded submission event to the list.
func (p *Publisher) Publish(ctx context.Context, sub bot.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission event: %w", err)
	}

	if err := p.client.RPush(ctx, p.list, string(data)).Err(); err != nil {
		return fmt.Errorf("enqueue submission event: %w", err)
	}

	return nil
}
