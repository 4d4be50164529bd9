package telegram

// Update is the subset of a Telegram Bot API update the bot consumes.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message carries the sender and text of an incoming message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// UserID returns the acting user's id, falling back to the chat id for
// updates without a sender.
func (u Update) UserID() (int64, bool) {
	if u.Message == nil {
		return 0, false
	}
	if u.Message.From != nil {
		return u.Message.From.ID, true
	}
	return u.Message.Chat.ID, true
}

// Text returns the message text, if any.
func (u Update) Text() (string, bool) {
	if u.Message == nil || u.Message.Text == "" {
		return "", false
	}
	return u.Message.Text, true
}
