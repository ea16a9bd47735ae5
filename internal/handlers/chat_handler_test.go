package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secularai/internal/models"
	"secularai/internal/services"
)

// stubChatService records appends and returns canned session data.
type stubChatService struct {
	session    *models.ChatSession
	sessionErr error
	messages   []*models.ChatMessage
	listErr    error
	deleteErr  error
	exportData []byte
	exportErr  error
	appended   []*models.ChatMessage
	appendErr  error
}

func (s *stubChatService) CreateSession(userID int, scriptureID, religionID, title string) (*models.ChatSession, error) {
	return s.session, s.sessionErr
}
func (s *stubChatService) ListSessions(int, string) ([]*models.ChatSession, error) {
	if s.session == nil {
		return nil, nil
	}
	return []*models.ChatSession{s.session}, nil
}
func (s *stubChatService) ListMessages(int, string) ([]*models.ChatMessage, error) {
	return s.messages, s.listErr
}
func (s *stubChatService) DeleteSession(int, string) error { return s.deleteErr }
func (s *stubChatService) GetSession(string) (*models.ChatSession, error) {
	return s.session, s.sessionErr
}
func (s *stubChatService) AppendMessage(m *models.ChatMessage) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, m)
	return nil
}
func (s *stubChatService) ExportTranscript(int, string) ([]byte, error) {
	return s.exportData, s.exportErr
}

// authed injects the username the auth middleware would have set.
func authed(username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("username", username)
		c.Next()
	}
}

func newChatRouter(chat *stubChatService, auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(chat, auth)
	r := gin.New()
	g := r.Group("/", authed("alice"))
	g.POST("/chat/sessions", h.CreateSession)
	g.GET("/chat/sessions/:scripture_id", h.ListSessions)
	g.GET("/chat/messages/:session_id", h.ListMessages)
	g.GET("/chat/messages/:session_id/export", h.ExportTranscript)
	g.DELETE("/chat/sessions/:session_id", h.DeleteSession)
	return r
}

func aliceAuth() *stubAuthService {
	return &stubAuthService{meUser: &models.User{ID: 1, Username: "alice"}}
}

func TestCreateSessionHandler(t *testing.T) {
	chat := &stubChatService{session: &models.ChatSession{ID: "s1", Title: "New Chat"}}
	r := newChatRouter(chat, aliceAuth())

	w := postJSON(r, "/chat/sessions", `{"scripture_id":"dhammapada","religion_id":"buddhism"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"s1"`)
}

func TestCreateSessionHandler_MissingFields(t *testing.T) {
	r := newChatRouter(&stubChatService{}, aliceAuth())
	w := postJSON(r, "/chat/sessions", `{"title":"only a title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSessionsHandler_EmptyIsArray(t *testing.T) {
	r := newChatRouter(&stubChatService{}, aliceAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/sessions/dhammapada", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()), "empty list serializes as [], not null")
}

func TestListMessagesHandler_ForeignSession(t *testing.T) {
	chat := &stubChatService{listErr: services.ErrNotSessionOwner}
	r := newChatRouter(chat, aliceAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/s1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteSessionHandler_NotFound(t *testing.T) {
	chat := &stubChatService{deleteErr: services.ErrSessionNotFound}
	r := newChatRouter(chat, aliceAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/chat/sessions/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportTranscriptHandler(t *testing.T) {
	chat := &stubChatService{exportData: []byte("%PDF-1.3 fake")}
	r := newChatRouter(chat, aliceAuth())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/s1/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transcript-s1.pdf")
}

func TestMeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(aliceAuth(), 0)
	r := gin.New()
	r.GET("/auth/me", authed("alice"), h.Me)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "password")
}
