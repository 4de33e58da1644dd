package queue_test

import (
	"context"
	"encoding/json"
	"testing"

	"evidencebot/internal/bot"
	"evidencebot/internal/queue"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPublishAppendsToList(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := queue.New(client, "evidencebot:submissions")
	ctx := context.Background()

	subs := []bot.Submission{
		{ChatID: 1, MediaCount: 2, Comment: "Saltivka district"},
		{ChatID: 2, MediaCount: 1, Comment: "Shevchenkivskyi district"},
	}
	for _, sub := range subs {
		if err := p.Publish(ctx, sub); err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	}

	raw, err := mr.List("evidencebot:submissions")
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 events, got %d", len(raw))
	}

	var first bot.Submission
	if err := json.Unmarshal([]byte(raw[0]), &first); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if first != subs[0] {
		t.Fatalf("event mismatch: got %+v want %+v", first, subs[0])
	}
}
