package models

import "time"

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

type ChatSession struct {
	ID          string    `json:"id"`
	UserID      int       `json:"-"`
	ScriptureID string    `json:"scripture_id"`
	ReligionID  string    `json:"religion_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID        int       `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // "user" | "ai"
	Content   string    `json:"content"`
	Verses    []Verse   `json:"verses,omitempty"`
	Sentiment string    `json:"sentiment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Verse is a citation extracted from a generated reply: the reference
// label carried by the [VERSE title="..."] tag and the quoted verse text.
type Verse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}
