package services

import (
	"strings"

	"github.com/google/uuid"

	"secularai/internal/models"
	"secularai/internal/pdf"
	"secularai/internal/repositories"
)

// ChatService owns sessions and transcripts. Every read or delete is
// gated on the requesting account owning the session.
type ChatService interface {
	CreateSession(userID int, scriptureID, religionID, title string) (*models.ChatSession, error)
	ListSessions(userID int, scriptureID string) ([]*models.ChatSession, error)
	ListMessages(userID int, sessionID string) ([]*models.ChatMessage, error)
	DeleteSession(userID int, sessionID string) error
	GetSession(sessionID string) (*models.ChatSession, error)
	AppendMessage(m *models.ChatMessage) error
	ExportTranscript(userID int, sessionID string) ([]byte, error)
}

type chatService struct {
	repo     repositories.ChatRepository
	exporter pdf.TranscriptExporter
}

func NewChatService(repo repositories.ChatRepository, exporter pdf.TranscriptExporter) ChatService {
	return &chatService{repo: repo, exporter: exporter}
}

func (s *chatService) CreateSession(userID int, scriptureID, religionID, title string) (*models.ChatSession, error) {
	if strings.TrimSpace(title) == "" {
		title = "New Chat"
	}
	session := &models.ChatSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		ScriptureID: scriptureID,
		ReligionID:  religionID,
		Title:       title,
	}
	if err := s.repo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *chatService) ListSessions(userID int, scriptureID string) ([]*models.ChatSession, error) {
	return s.repo.ListSessions(userID, scriptureID)
}

// owned loads a session and checks ownership: ErrSessionNotFound when
// absent, ErrNotSessionOwner when held by another account.
func (s *chatService) owned(userID int, sessionID string) (*models.ChatSession, error) {
	session, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

func (s *chatService) ListMessages(userID int, sessionID string) ([]*models.ChatMessage, error) {
	if _, err := s.owned(userID, sessionID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(sessionID)
}

func (s *chatService) DeleteSession(userID int, sessionID string) error {
	if _, err := s.owned(userID, sessionID); err != nil {
		return err
	}
	return s.repo.DeleteSessionCascade(sessionID)
}

func (s *chatService) GetSession(sessionID string) (*models.ChatSession, error) {
	return s.repo.GetSession(sessionID)
}

func (s *chatService) AppendMessage(m *models.ChatMessage) error {
	return s.repo.CreateMessage(m)
}

func (s *chatService) ExportTranscript(userID int, sessionID string) ([]byte, error) {
	session, err := s.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(sessionID)
	if err != nil {
		return nil, err
	}
	return s.exporter.Render(session, messages)
}
