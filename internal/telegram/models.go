package telegram

// Update mirrors the Telegram update payload that wraps incoming messages.
type Update struct {
	UpdateID      int      `json:"update_id"`
	Message       *Message `json:"message"`
	EditedMessage *Message `json:"edited_message"`
}

// Message captures the relevant parts of a Telegram chat message.
type Message struct {
	MessageID int         `json:"message_id"`
	From      *User       `json:"from"`
	Chat      Chat        `json:"chat"`
	Date      int64       `json:"date"`
	Text      string      `json:"text"`
	Photo     []PhotoSize `json:"photo"`
	Video     *Video      `json:"video"`
	Contact   *Contact    `json:"contact"`
}

// PhotoSize captures the photo variants Telegram sends with a message.
type PhotoSize struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileSize     int    `json:"file_size"`
}

// Video describes a video attachment on a message.
type Video struct {
	FileID       string `json:"file_id"`
	FileUniqueID string `json:"file_unique_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Duration     int    `json:"duration"`
	FileSize     int    `json:"file_size"`
}

// Contact is a phone contact shared into the chat, usually via the
// request-contact keyboard button.
type Contact struct {
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	UserID      int64  `json:"user_id"`
}

// User represents the Telegram account that sent a message.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// Chat contains the destination chat metadata Telegram includes per message.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

// IsPrivate reports whether the chat is a one-to-one conversation.
func (c Chat) IsPrivate() bool {
	return c.Type == "private"
}

// ReplyKeyboardMarkup is a custom reply keyboard shown under the input field.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard bool               `json:"one_time_keyboard,omitempty"`
}

// KeyboardButton is a single button of a reply keyboard. RequestContact makes
// the button share the user's own phone contact when pressed.
type KeyboardButton struct {
	Text           string `json:"text"`
	RequestContact bool   `json:"request_contact,omitempty"`
}

// ReplyKeyboardRemove tells the client to drop the current reply keyboard.
type ReplyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

// getUpdatesResp holds the raw Telegram response for getUpdates polling.
type getUpdatesResp struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

// getMeResp mirrors the Telegram getMe response payload.
type getMeResp struct {
	OK     bool  `json:"ok"`
	Result *User `json:"result"`
}

// apiResp is the generic Telegram envelope for calls where only the outcome
// matters.
type apiResp struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}
