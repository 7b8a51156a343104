// ABOUTME: Wire types for the inbound webhook update envelope
// ABOUTME: Mirrors the platform's JSON shape; only moderation-relevant fields are decoded

package webhook

// Update is one inbound webhook payload.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message carries the fields the policy engine cares about. Everything
// else in the platform payload is ignored.
type Message struct {
	MessageID      int64     `json:"message_id"`
	From           *User     `json:"from"`
	Chat           Chat      `json:"chat"`
	Date           int64     `json:"date"`
	Text           string    `json:"text"`
	Caption        string    `json:"caption"`
	Photo          []FileRef `json:"photo"`
	Video          *FileRef  `json:"video"`
	Document       *FileRef  `json:"document"`
	ForwardDate    int64     `json:"forward_date"`
	NewChatMembers []User    `json:"new_chat_members"`
}

// User identifies a message author or joining member.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsBot    bool   `json:"is_bot"`
}

// Chat identifies the group the update belongs to.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// FileRef is an attachment reference; presence is all moderation needs.
type FileRef struct {
	FileID string `json:"file_id"`
}

// text returns the message text, falling back to the media caption.
func (m *Message) text() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}
