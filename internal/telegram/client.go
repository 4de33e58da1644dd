// Package telegram is a minimal Telegram Bot API client covering the calls
// the intake bot needs: long-polling for updates, sending text messages with
// reply keyboards, forwarding messages and resolving the bot's own identity.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API over plain HTTP.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client instance.
type Option func(*Client)

// WithHTTPClient assigns a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL changes the base URL used for API calls. Primarily intended for testing.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// NewClient constructs a Telegram client for the given bot token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("telegram: bot token not provided")
	}

	client := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *Client) methodURL(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}

// GetUpdates polls the Telegram Bot API for new updates, respecting offset.
// timeout is the long-poll duration in seconds.
func (c *Client) GetUpdates(ctx context.Context, offset, timeout int) ([]Update, error) {
	reqURL := fmt.Sprintf("%s?offset=%d&timeout=%d", c.methodURL("getUpdates"), offset, timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create getUpdates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("telegram API status %d: %s", resp.StatusCode, string(b))
	}

	var r getUpdatesResp
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&r); err != nil {
		return nil, err
	}

	if !r.OK {
		return nil, fmt.Errorf("telegram API returned ok=false")
	}

	return r.Result, nil
}

// GetMe resolves the bot's own account, including its registered username.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL("getMe"), nil)
	if err != nil {
		return nil, fmt.Errorf("create getMe request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("getMe status %d: %s", resp.StatusCode, string(b))
	}

	var r getMeResp
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&r); err != nil {
		return nil, err
	}
	if !r.OK || r.Result == nil {
		return nil, fmt.Errorf("telegram getMe returned empty result")
	}

	return r.Result, nil
}

// SendMessageParams describes an outgoing text message. ReplyToMessageID of
// zero means no threading; ReplyMarkup may be a ReplyKeyboardMarkup or a
// ReplyKeyboardRemove and is JSON-encoded into the form payload.
type SendMessageParams struct {
	ChatID           int64
	Text             string
	ReplyToMessageID int
	ReplyMarkup      any
}

// SendMessage posts a text message to the Telegram Bot API.
func (c *Client) SendMessage(ctx context.Context, p SendMessageParams) error {
	values := url.Values{}
	values.Set("chat_id", strconv.FormatInt(p.ChatID, 10))
	values.Set("text", p.Text)
	if p.ReplyToMessageID != 0 {
		values.Set("reply_to_message_id", strconv.Itoa(p.ReplyToMessageID))
	}
	if p.ReplyMarkup != nil {
		markup, err := json.Marshal(p.ReplyMarkup)
		if err != nil {
			return fmt.Errorf("marshal reply markup: %w", err)
		}
		values.Set("reply_markup", string(markup))
	}

	return c.postForm(ctx, "sendMessage", values)
}

// ForwardMessage forwards an existing message from one chat to another.
func (c *Client) ForwardMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error {
	values := url.Values{}
	values.Set("chat_id", strconv.FormatInt(toChatID, 10))
	values.Set("from_chat_id", strconv.FormatInt(fromChatID, 10))
	values.Set("message_id", strconv.Itoa(messageID))

	return c.postForm(ctx, "forwardMessage", values)
}

func (c *Client) postForm(ctx context.Context, method string, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s status %d: %s", method, resp.StatusCode, string(body))
	}

	var r apiResp
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&r); err != nil {
		return err
	}
	if !r.OK {
		return fmt.Errorf("%s returned ok=false: %s", method, r.Description)
	}

	return nil
}
