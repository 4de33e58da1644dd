// Package bot holds the per-conversation intake state machine. The machine
// itself is a pure function over a persisted Session and a classified inbound
// event; it emits outbound intents and never performs I/O. The Dispatcher in
// this package wires it to the transport and the session store.
package bot

// State tags the variant a conversation currently occupies.
type State string

const (
	// StateStart indicates a conversation that has not verified a contact yet.
	StateStart State = "start"
	// StateReadyToReceiveMedia indicates a verified conversation with no media collected.
	StateReadyToReceiveMedia State = "ready_to_receive_media"
	// StateReadyToReceiveComment indicates media has been collected and a text comment is expected.
	StateReadyToReceiveComment State = "ready_to_receive_comment"
	// StateAwaitingConfirmation indicates a complete submission waiting for an explicit yes/no.
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// Contact is the verified phone identity bound to a conversation. Once
// captured it is carried unchanged through every later state.
type Contact struct {
	PhoneNumber string `json:"phone_number"`
	UserID      int64  `json:"user_id"`
}

// Session is the persisted record for one conversation. Contact is nil only
// in StateStart; MediaMessageIDs is the ordered, append-only list of message
// ids collected since the last reset; Comment is set only in
// StateAwaitingConfirmation.
type Session struct {
	State           State    `json:"state"`
	Contact         *Contact `json:"contact,omitempty"`
	MediaMessageIDs []int    `json:"media_message_ids,omitempty"`
	Comment         string   `json:"comment,omitempty"`
}

// NewSession returns the default session a conversation starts in.
func NewSession() Session {
	return Session{State: StateStart}
}

// resetToReceiveMedia drops collected media and comment but keeps the
// verified contact.
func (s Session) resetToReceiveMedia() Session {
	return Session{State: StateReadyToReceiveMedia, Contact: s.Contact}
}
