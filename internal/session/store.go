// Package session persists conversation state in Redis, one JSON record per
// chat. A missing record reads back as the default Start session, so a
// conversation never needs explicit creation.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"evidencebot/internal/bot"

	backend "github.com/redis/go-redis/v9"
)

// Store implements bot.SessionStore on top of Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiration for sessions. Zero means sessions persist
// indefinitely, which is the default: an abandoned conversation simply
// stays in its last state.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a Redis-backed store with its own client.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "evidencebot:session:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(chatID int64) string {
	return s.prefix + strconv.FormatInt(chatID, 10)
}

// Get loads the session for a chat. A missing key yields the default Start
// session rather than an error.
func (s *Store) Get(ctx context.Context, chatID int64) (bot.Session, error) {
	val, err := s.client.Get(ctx, s.key(chatID)).Result()
	if err != nil {
		if err == backend.Nil {
			return bot.NewSession(), nil
		}
		return bot.Session{}, fmt.Errorf("get session from redis: %w", err)
	}

	var sess bot.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return bot.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return sess, nil
}

// Set overwrites the session for a chat.
func (s *Store) Set(ctx context.Context, chatID int64, sess bot.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(chatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session in redis: %w", err)
	}

	return nil
}

// Close closes the underlying redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
