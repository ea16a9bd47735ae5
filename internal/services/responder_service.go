package services

import (
	"context"
	"fmt"
	"strings"

	"secularai/internal/models"
	"secularai/internal/repositories"
)

// SearchClient is the external semantic index: top-k passages for a
// query, scoped to one scripture corpus.
type SearchClient interface {
	Search(ctx context.Context, query string, k int, scope string) ([]string, error)
}

// CompletionClient is the external language model.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	historyWindow = 14
	retrievalTopK = 3
)

// SafetyMessage is returned verbatim for harm-indicating utterances,
// before any retrieval or generation cost is incurred.
const SafetyMessage = "I hear how much pain you are carrying right now, and I want you to know you are not alone. " +
	"Please reach out to someone you trust, or to a professional counselor or crisis line in your area, right away. " +
	"If you are in immediate danger, contact your local emergency services. Your life matters."

var harmIndicators = []string{
	"suicide",
	"kill myself",
	"end my life",
	"self harm",
	"self-harm",
	"hurt myself",
	"want to die",
	"kill him",
	"kill her",
	"kill them",
}

// ResponderService turns a user utterance plus session history into a
// grounded reply with extracted verse citations. It holds no
// conversation state of its own: history is reloaded from storage on
// every call.
type ResponderService interface {
	Respond(ctx context.Context, utterance, sessionID, religion, scripture string) (string, []models.Verse, error)
}

type responderService struct {
	repo     repositories.ChatRepository
	searcher SearchClient
	model    CompletionClient
}

func NewResponderService(repo repositories.ChatRepository, searcher SearchClient, model CompletionClient) ResponderService {
	return &responderService{repo: repo, searcher: searcher, model: model}
}

func (s *responderService) Respond(ctx context.Context, utterance, sessionID, religion, scripture string) (string, []models.Verse, error) {
	if isHarmful(utterance) {
		return SafetyMessage, nil, nil
	}

	history, err := s.renderHistory(sessionID)
	if err != nil {
		return "", nil, err
	}

	passages, err := s.searcher.Search(ctx, utterance, retrievalTopK, scripture)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}
	scriptureContext := strings.Join(passages, "\n\n")

	system := buildSystemPrompt(religion, scripture)
	user := buildUserPrompt(scriptureContext, history, utterance)

	raw, err := s.model.Complete(ctx, system, user)
	if err != nil {
		return "", nil, fmt.Errorf("generation failed: %w", err)
	}
	raw = stripReasoning(raw)

	reply, verses := ExtractVerses(raw)
	return reply, verses, nil
}

func isHarmful(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, term := range harmIndicators {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// renderHistory loads the last messages for the session and renders
// them oldest-first as labeled lines. Older context is dropped, not
// summarized.
func (s *responderService) renderHistory(sessionID string) (string, error) {
	messages, err := s.repo.ListRecentMessages(sessionID, historyWindow)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, m := range messages {
		label := "Guide"
		if m.Role == models.RoleUser {
			label = "User"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func buildSystemPrompt(religion, scripture string) string {
	return fmt.Sprintf(`You are a wise, compassionate guide speaking from the tradition of %s, answering through the %s.

Rules:
- NO stage directions like *laughs*, *smiles*, (grins), etc.
- Write naturally, like a real conversation. Be direct and clear, not theatrical.
- Give practical, actionable advice drawn from the scripture context below.
- If someone asks a question, answer it directly first, then explain.
- Translate any non-English scriptural terms simply and clearly.
- When you quote a verse from the context, wrap it exactly as [VERSE title="reference"]verse text[/VERSE]. Never invent verses that are not in the provided context.
- Reply in the same language the user writes in.
- Keep paragraphs short and readable.`, religion, scripture)
}

func buildUserPrompt(scriptureContext, history, utterance string) string {
	var b strings.Builder
	b.WriteString("Scripture context:\n")
	b.WriteString(scriptureContext)
	b.WriteString("\n\n")
	if history != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(history)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(utterance)
	return b.String()
}

// stripReasoning removes <think>...</think> spans some models emit
// before the user-facing answer.
func stripReasoning(raw string) string {
	const open, close = "<think>", "</think>"
	for {
		i := strings.Index(raw, open)
		if i < 0 {
			return raw
		}
		j := strings.Index(raw[i:], close)
		if j < 0 {
			return raw[:i]
		}
		raw = raw[:i] + raw[i+j+len(close):]
	}
}
