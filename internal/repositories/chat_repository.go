package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"secularai/internal/models"
)

type ChatRepository interface {
	CreateSession(s *models.ChatSession) error
	GetSession(id string) (*models.ChatSession, error)
	ListSessions(userID int, scriptureID string) ([]*models.ChatSession, error)
	ListMessages(sessionID string) ([]*models.ChatMessage, error)
	// ListRecentMessages returns up to limit newest messages in
	// oldest-to-newest order.
	ListRecentMessages(sessionID string, limit int) ([]*models.ChatMessage, error)
	CreateMessage(m *models.ChatMessage) error
	// DeleteSessionCascade removes the session and all its messages in
	// one transaction so no orphaned message survives.
	DeleteSessionCascade(id string) error
}

type chatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{DB: db}
}

func (r *chatRepository) CreateSession(s *models.ChatSession) error {
	const q = `
		INSERT INTO chat_sessions (id, user_id, scripture_id, religion_id, title)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := r.DB.QueryRow(q, s.ID, s.UserID, s.ScriptureID, s.ReligionID, s.Title).Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("chat_session create: %w", err)
	}
	return nil
}

func (r *chatRepository) GetSession(id string) (*models.ChatSession, error) {
	const q = `
		SELECT id, user_id, scripture_id, religion_id, title, created_at
		FROM chat_sessions
		WHERE id = $1
	`
	s := &models.ChatSession{}
	err := r.DB.QueryRow(q, id).Scan(&s.ID, &s.UserID, &s.ScriptureID, &s.ReligionID, &s.Title, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("chat_session scan: %w", err)
	}
	return s, nil
}

func (r *chatRepository) ListSessions(userID int, scriptureID string) ([]*models.ChatSession, error) {
	const q = `
		SELECT id, user_id, scripture_id, religion_id, title, created_at
		FROM chat_sessions
		WHERE user_id = $1 AND scripture_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(q, userID, scriptureID)
	if err != nil {
		return nil, fmt.Errorf("chat_session list: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ChatSession
	for rows.Next() {
		s := &models.ChatSession{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.ScriptureID, &s.ReligionID, &s.Title, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("chat_session list scan: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

const messageColumns = `id, session_id, role, content, verses_json, COALESCE(sentiment, ''), created_at`

func scanMessageRows(rows *sql.Rows) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	for rows.Next() {
		m := &models.ChatMessage{}
		var versesJSON sql.NullString
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &versesJSON, &m.Sentiment, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("chat_message scan: %w", err)
		}
		if versesJSON.Valid && versesJSON.String != "" {
			_ = json.Unmarshal([]byte(versesJSON.String), &m.Verses)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *chatRepository) ListMessages(sessionID string) ([]*models.ChatMessage, error) {
	q := `SELECT ` + messageColumns + ` FROM chat_messages WHERE session_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.Query(q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("chat_message list: %w", err)
	}
	defer rows.Close()
	return scanMessageRows(rows)
}

func (r *chatRepository) ListRecentMessages(sessionID string, limit int) ([]*models.ChatMessage, error) {
	q := `
		SELECT * FROM (
			SELECT ` + messageColumns + `
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.DB.Query(q, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat_message recent: %w", err)
	}
	defer rows.Close()
	return scanMessageRows(rows)
}

func (r *chatRepository) CreateMessage(m *models.ChatMessage) error {
	var versesJSON interface{}
	if len(m.Verses) > 0 {
		b, err := json.Marshal(m.Verses)
		if err != nil {
			return fmt.Errorf("chat_message marshal verses: %w", err)
		}
		versesJSON = string(b)
	}
	const q = `
		INSERT INTO chat_messages (session_id, role, content, verses_json, sentiment)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, m.SessionID, m.Role, m.Content, versesJSON, m.Sentiment).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("chat_message create: %w", err)
	}
	return nil
}

func (r *chatRepository) DeleteSessionCascade(id string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("chat_session delete begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chat_messages WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("chat_message cascade: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM chat_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("chat_session delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("chat_session delete commit: %w", err)
	}
	return nil
}
