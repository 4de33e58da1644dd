package bot

import (
	"fmt"
	"strings"
)

// acceptedPhonePrefix is the country calling code submissions are limited to.
const acceptedPhonePrefix = "380"

// Keyboard button labels. Confirmation matching is exact, so these double
// as the expected reply texts.
const (
	ContactButtonLabel  = "Підтвердити мій номер телефону"
	ConfirmSubmitLabel  = "Так, відправте мої фото/відео на перевірку"
	ConfirmRestartLabel = "Ні, почати знов"
)

const helpText = `Миру нам всім!

Бот розроблено Харківським ІТ суспілсьтвом разом із волонтерами задля збору медіа руйнувань Харкову. Ця інформація буде використовуватися  задля донесення до усього світу та Російських громадян, як Росія знищує Харків.

Наразі бот має лише одну команду:
/add - Додати докази (відео та фото фіксації) 📷`

const (
	pressConfirmPrompt  = "Натисніть \"Підтвердити мій номер телефону\" щоб продовжити."
	ownContactPrompt    = "Відправте свій контакт."
	foreignNumberReply  = "Нажаль ми можемо підтвердити лише користувачів з українським номером телефону."
	numberConfirmedFmt  = "Ваш номер %s підтверджено. Надсилайте нам відео та фото фіксації руйнуваннь внаслідок агресії РФ. В комментарі зазначте район (не треба вказувати точну адресу!)"
	sendMediaPrompt     = "Надсилайте нам відео та фото фіксації руйнуваннь внаслідок агресії РФ."
	commentPrompt       = "Відправте текстове повідомлення з комментарем з зазначенням району (не треба вказувати точну адресу!)"
	onlyMediaReply      = "Відправляйте нам лише фото або відео."
	mediaOrCommentReply = "Відправляйте нам лише фото або відео або коментар текстовим повідомленням."
	confirmQuestion     = "Відправити додані фото/відео та ваш комментар на перевірку?"
	receivedReply       = "Ми отримали інформацію! Слава Україні! Щоб додати ще, відправте /add"
	chooseAnswerReply   = "Відправте \"Так, відправте мої фото/відео на перевірку\" чи \"Ні, почати знов\""
)

// Meta carries the per-deployment values a transition needs: the bot's
// registered username for addressed-command parsing and the chat that
// receives completed submissions.
type Meta struct {
	BotUsername  string
	ReviewChatID int64
}

// Transition computes the next session and the ordered outbound actions for
// one inbound event. It is a pure function: no I/O, no hidden state, same
// inputs always produce the same outputs. The dispatcher performs the actions
// and persists the returned session afterwards.
func Transition(s Session, ev Event, meta Meta) (Session, []Action) {
	// Commands win over state-specific handling, including the exact-match
	// confirmation labels. They are only recognized once a contact has been
	// verified; in StateStart every message goes through the contact flow.
	if s.State != StateStart && ev.Kind == ContentText {
		if cmd, ok := ParseCommand(ev.Text, meta.BotUsername); ok {
			return applyCommand(s, ev, cmd)
		}
	}

	switch s.State {
	case StateReadyToReceiveMedia:
		return fromReadyToReceiveMedia(s, ev)
	case StateReadyToReceiveComment:
		return fromReadyToReceiveComment(s, ev)
	case StateAwaitingConfirmation:
		return fromAwaitingConfirmation(s, ev, meta)
	default:
		// StateStart, plus anything unrecognized from an old record.
		return fromStart(s, ev)
	}
}

func applyCommand(s Session, ev Event, cmd Command) (Session, []Action) {
	switch cmd {
	case CommandStart:
		return s, []Action{SendText{ChatID: ev.ChatID, Text: helpText}}
	case CommandReset:
		return s.resetToReceiveMedia(), []Action{SendText{ChatID: ev.ChatID, Text: sendMediaPrompt}}
	default: // CommandAdd
		return s, []Action{SendText{ChatID: ev.ChatID, Text: sendMediaPrompt}}
	}
}

func fromStart(s Session, ev Event) (Session, []Action) {
	// Group and channel traffic is ignored until a contact is verified.
	if !ev.Private {
		return s, nil
	}

	if ev.Kind != ContentContact || ev.Contact == nil {
		return s, []Action{SendText{
			ChatID:   ev.ChatID,
			Text:     pressConfirmPrompt,
			Keyboard: KeyboardContactRequest,
		}}
	}

	share := ev.Contact
	if share.UserID != ev.ChatID {
		return s, []Action{SendText{
			ChatID:   ev.ChatID,
			Text:     ownContactPrompt,
			Keyboard: KeyboardContactRequest,
		}}
	}
	if !strings.HasPrefix(share.PhoneNumber, acceptedPhonePrefix) {
		return s, []Action{SendText{
			ChatID:   ev.ChatID,
			Text:     foreignNumberReply,
			Keyboard: KeyboardContactRequest,
		}}
	}

	next := Session{
		State:   StateReadyToReceiveMedia,
		Contact: &Contact{PhoneNumber: share.PhoneNumber, UserID: share.UserID},
	}
	return next, []Action{SendText{
		ChatID:   ev.ChatID,
		Text:     fmt.Sprintf(numberConfirmedFmt, share.PhoneNumber),
		Keyboard: KeyboardRemove,
	}}
}

func fromReadyToReceiveMedia(s Session, ev Event) (Session, []Action) {
	if ev.Kind != ContentMedia {
		return s, []Action{SendText{
			ChatID:  ev.ChatID,
			Text:    onlyMediaReply,
			ReplyTo: ev.MessageID,
		}}
	}

	next := Session{
		State:           StateReadyToReceiveComment,
		Contact:         s.Contact,
		MediaMessageIDs: []int{ev.MessageID},
	}
	return next, []Action{SendText{
		ChatID:  ev.ChatID,
		Text:    commentPrompt,
		ReplyTo: ev.MessageID,
	}}
}

func fromReadyToReceiveComment(s Session, ev Event) (Session, []Action) {
	switch ev.Kind {
	case ContentMedia:
		ids := make([]int, 0, len(s.MediaMessageIDs)+1)
		ids = append(ids, s.MediaMessageIDs...)
		ids = append(ids, ev.MessageID)
		next := Session{
			State:           StateReadyToReceiveComment,
			Contact:         s.Contact,
			MediaMessageIDs: ids,
		}
		return next, []Action{SendText{
			ChatID:  ev.ChatID,
			Text:    commentPrompt,
			ReplyTo: ev.MessageID,
		}}
	case ContentText:
		next := Session{
			State:           StateAwaitingConfirmation,
			Contact:         s.Contact,
			MediaMessageIDs: s.MediaMessageIDs,
			Comment:         ev.Text,
		}
		return next, []Action{SendText{
			ChatID:   ev.ChatID,
			Text:     confirmQuestion,
			ReplyTo:  ev.MessageID,
			Keyboard: KeyboardConfirm,
		}}
	default:
		return s, []Action{SendText{
			ChatID:  ev.ChatID,
			Text:    mediaOrCommentReply,
			ReplyTo: ev.MessageID,
		}}
	}
}

func fromAwaitingConfirmation(s Session, ev Event, meta Meta) (Session, []Action) {
	switch {
	case ev.Kind == ContentText && ev.Text == ConfirmSubmitLabel:
		actions := make([]Action, 0, len(s.MediaMessageIDs)+2)
		actions = append(actions, SendText{
			ChatID: meta.ReviewChatID,
			Text:   submissionSummary(s),
		})
		for _, id := range s.MediaMessageIDs {
			actions = append(actions, Forward{
				ToChatID:   meta.ReviewChatID,
				FromChatID: ev.ChatID,
				MessageID:  id,
			})
		}
		actions = append(actions, SendText{
			ChatID:   ev.ChatID,
			Text:     receivedReply,
			ReplyTo:  ev.MessageID,
			Keyboard: KeyboardRemove,
		})
		return s.resetToReceiveMedia(), actions

	case ev.Kind == ContentText && ev.Text == ConfirmRestartLabel:
		return s.resetToReceiveMedia(), []Action{SendText{
			ChatID:   ev.ChatID,
			Text:     sendMediaPrompt,
			ReplyTo:  ev.MessageID,
			Keyboard: KeyboardRemove,
		}}

	default:
		return s, []Action{SendText{
			ChatID:  ev.ChatID,
			Text:    chooseAnswerReply,
			ReplyTo: ev.MessageID,
		}}
	}
}

// submissionSummary is the message posted to the review chat ahead of the
// forwarded media.
func submissionSummary(s Session) string {
	return fmt.Sprintf("Reported by %s (user %d):\n%s", s.Contact.PhoneNumber, s.Contact.UserID, s.Comment)
}
