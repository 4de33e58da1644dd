package bot

// ContentKind classifies what an inbound message carries.
type ContentKind string

const (
	// ContentText is a plain text message.
	ContentText ContentKind = "text"
	// ContentMedia is a photo or video attachment.
	ContentMedia ContentKind = "media"
	// ContentContact is a shared phone contact.
	ContentContact ContentKind = "contact"
	// ContentOther is anything else (stickers, documents, locations, ...).
	ContentOther ContentKind = "other"
)

// ContactShare is the payload of a shared phone contact.
type ContactShare struct {
	UserID      int64
	PhoneNumber string
}

// Event is one classified inbound message, stripped of transport detail.
type Event struct {
	ChatID    int64
	MessageID int
	Private   bool
	Kind      ContentKind
	Text      string        // set when Kind is ContentText
	Contact   *ContactShare // set when Kind is ContentContact
}

// Keyboard identifies the reply keyboard attached to an outgoing message.
type Keyboard int

const (
	// KeyboardNone leaves the current keyboard untouched.
	KeyboardNone Keyboard = iota
	// KeyboardContactRequest shows the single request-contact button.
	KeyboardContactRequest
	// KeyboardConfirm shows the submit / start-over button pair.
	KeyboardConfirm
	// KeyboardRemove removes whatever keyboard is showing.
	KeyboardRemove
)

// Action is an outbound intent emitted by the state machine. The machine
// never performs I/O itself; the dispatcher executes actions in order.
type Action interface {
	action()
}

// SendText sends a text message. ReplyTo of zero means no threading.
type SendText struct {
	ChatID   int64
	Text     string
	ReplyTo  int
	Keyboard Keyboard
}

// Forward forwards a previously received message to another chat.
type Forward struct {
	ToChatID   int64
	FromChatID int64
	MessageID  int
}

func (SendText) action() {}
func (Forward) action()  {}
