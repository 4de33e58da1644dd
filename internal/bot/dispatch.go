package bot

import (
	"context"
	"fmt"
	"log"

	"evidencebot/internal/telegram"
)

// Transport is the subset of the Telegram client the dispatcher needs.
type Transport interface {
	SendMessage(ctx context.Context, p telegram.SendMessageParams) error
	ForwardMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error
}

// SessionStore persists one Session per chat. Get returns the default Start
// session when no record exists.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (Session, error)
	Set(ctx context.Context, chatID int64, s Session) error
}

// Submission is the event published for every completed submission.
type Submission struct {
	ChatID     int64  `json:"chat_id"`
	MediaCount int    `json:"media_count"`
	Comment    string `json:"comment"`
}

// SubmissionSink receives an event for every submission relayed to review.
type SubmissionSink interface {
	Publish(ctx context.Context, sub Submission) error
}

// Dispatcher drives the state machine for incoming messages: classify the
// message, load the session, run the transition, perform the emitted actions
// and persist the new session. Sink is optional.
type Dispatcher struct {
	Transport Transport
	Store     SessionStore
	Meta      Meta
	Sink      SubmissionSink
}

// HandleMessage processes one inbound message. On a transport or store error
// the event is dropped and the stored session stays at its pre-event value:
// persistence happens only after every action succeeded.
func (d *Dispatcher) HandleMessage(ctx context.Context, m *telegram.Message) error {
	ev := Classify(m)

	sess, err := d.Store.Get(ctx, ev.ChatID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	next, actions := Transition(sess, ev, d.Meta)

	for _, a := range actions {
		if err := d.perform(ctx, a); err != nil {
			return fmt.Errorf("perform action: %w", err)
		}
	}

	if err := d.Store.Set(ctx, ev.ChatID, next); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if d.Sink != nil {
		if n := forwardCount(actions); n > 0 {
			sub := Submission{ChatID: ev.ChatID, MediaCount: n, Comment: sess.Comment}
			if err := d.Sink.Publish(ctx, sub); err != nil {
				// The submission already reached the review chat; losing the
				// side-channel event is not worth failing the conversation.
				log.Printf("submission event publish error (chat %d): %v", ev.ChatID, err)
			}
		}
	}

	return nil
}

// Classify reduces a Telegram message to the transport-free event the state
// machine consumes.
func Classify(m *telegram.Message) Event {
	ev := Event{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Private:   m.Chat.IsPrivate(),
		Kind:      ContentOther,
	}

	switch {
	case m.Contact != nil:
		ev.Kind = ContentContact
		ev.Contact = &ContactShare{
			UserID:      m.Contact.UserID,
			PhoneNumber: m.Contact.PhoneNumber,
		}
	case len(m.Photo) > 0 || m.Video != nil:
		ev.Kind = ContentMedia
	case m.Text != "":
		ev.Kind = ContentText
		ev.Text = m.Text
	}

	return ev
}

func (d *Dispatcher) perform(ctx context.Context, a Action) error {
	switch act := a.(type) {
	case SendText:
		return d.Transport.SendMessage(ctx, telegram.SendMessageParams{
			ChatID:           act.ChatID,
			Text:             act.Text,
			ReplyToMessageID: act.ReplyTo,
			ReplyMarkup:      replyMarkup(act.Keyboard),
		})
	case Forward:
		return d.Transport.ForwardMessage(ctx, act.ToChatID, act.FromChatID, act.MessageID)
	default:
		return fmt.Errorf("unknown action %T", a)
	}
}

func replyMarkup(k Keyboard) any {
	switch k {
	case KeyboardContactRequest:
		return telegram.ReplyKeyboardMarkup{
			Keyboard: [][]telegram.KeyboardButton{{
				{Text: ContactButtonLabel, RequestContact: true},
			}},
			ResizeKeyboard: true,
		}
	case KeyboardConfirm:
		return telegram.ReplyKeyboardMarkup{
			Keyboard: [][]telegram.KeyboardButton{{
				{Text: ConfirmSubmitLabel},
				{Text: ConfirmRestartLabel},
			}},
			ResizeKeyboard: true,
		}
	case KeyboardRemove:
		return telegram.ReplyKeyboardRemove{RemoveKeyboard: true}
	default:
		return nil
	}
}

func forwardCount(actions []Action) int {
	n := 0
	for _, a := range actions {
		if _, ok := a.(Forward); ok {
			n++
		}
	}
	return n
}
