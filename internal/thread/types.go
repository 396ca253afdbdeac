// Package thread decodes persisted assistant chat-thread documents into an
// ordered message sequence. The document shape is what the agent runtime
// stores: a storeState wrapper around a messages array, each message carrying
// a role and a list of typed content entries.
package thread

import (
	"encoding/json"
	"time"
)

// Role classifies a message author. Extraction policy is dispatched on this,
// so it is a closed enum rather than the raw string from the wire.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleOther
)

// ParseRole maps a wire role string onto the closed enum. Anything that is
// not a user or assistant turn (system, tool, function, ...) is RoleOther.
func ParseRole(s string) Role {
	switch s {
	case "user":
		return RoleUser
	case "assistant":
		return RoleAssistant
	default:
		return RoleOther
	}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "other"
	}
}

// MarshalJSON emits the role name, matching the wire convention.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts any role string; unknown values map to RoleOther.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// Document is the decoded thread document. Unknown fields at any level are
// ignored so that runtime schema additions don't break decoding.
type Document struct {
	StoreState *StoreState `json:"storeState"`
}

// StoreState wraps the message sequence. Messages is nil (not empty) when
// the path was absent from the input, which Parse treats as an error.
type StoreState struct {
	Messages []RawMessage `json:"messages"`
}

// RawMessage is a single turn as persisted by the runtime. Role is kept as
// the raw wire string so re-serialization can copy it through unchanged;
// callers dispatch on Kind().
type RawMessage struct {
	Role       string       `json:"role"`
	AuthorName string       `json:"authorName,omitempty"`
	CreatedAt  *time.Time   `json:"createdAt,omitempty"`
	MessageID  string       `json:"messageId,omitempty"`
	Contents   []RawContent `json:"contents,omitempty"`
}

// RawContent is one content entry of a message. Only textual entries are
// consumed; other content kinds (images, tool payloads) pass through here
// with an empty Text and are ignored.
type RawContent struct {
	ContentType string `json:"contentType,omitempty"`
	Text        string `json:"text,omitempty"`
}

// Kind returns the closed role classification for this message.
func (m *RawMessage) Kind() Role {
	return ParseRole(m.Role)
}

// Text returns the message's textual payload: the last content entry with
// non-empty text, or "" when the message carries no text at all.
func (m *RawMessage) Text() string {
	text := ""
	for _, c := range m.Contents {
		if c.Text != "" {
			text = c.Text
		}
	}
	return text
}
