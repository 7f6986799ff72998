// Package chat maintains the assistant's conversational session.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/anandvisw/pharmscribe-go/internal/config"
	"github.com/anandvisw/pharmscribe-go/internal/metrics"
	"github.com/anandvisw/pharmscribe-go/internal/models"
)

const persona = `You are PharmScribe's assistant, a careful medication-safety companion.
Answer questions about adverse drug events, interactions and general medication safety in plain language.
You are not a doctor: for anything diagnostic or urgent, advise consulting a clinician or pharmacist.`

// FallbackReply replaces an empty or failed model response so a broken turn
// never ends the session.
const FallbackReply = "I could not generate a response."

// NewGoogleAIModel builds the chat model backend from configuration.
func NewGoogleAIModel(ctx context.Context, cfg config.Config) (llms.Model, error) {
	return googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.ModelChat),
	)
}

// Session holds one linear, append-only conversation. It owns its history
// for its lifetime; turns are appended, never mutated. Concurrent Send calls
// on the same session are a caller error and must be serialized upstream.
type Session struct {
	id      string
	model   llms.Model
	logger  *slog.Logger
	history []models.ConversationTurn
}

// NewSession creates an empty session on the given model.
func NewSession(model llms.Model, logger *slog.Logger) *Session {
	return &Session{
		id:     uuid.NewString(),
		model:  model,
		logger: logger,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// History returns a copy of the turn sequence so far.
func (s *Session) History() []models.ConversationTurn {
	out := make([]models.ConversationTurn, len(s.history))
	copy(out, s.history)
	return out
}

// Send appends the user turn, asks the model for a reply over the full
// history, and appends and returns the reply. A transport error or empty
// reply degrades to FallbackReply instead of surfacing: the conversation
// stays usable after a transient failure.
func (s *Session) Send(ctx context.Context, text string) string {
	start := time.Now()

	s.history = append(s.history, models.ConversationTurn{Role: models.RoleUser, Text: text})

	messages := make([]llms.MessageContent, 0, len(s.history)+1)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, persona))
	for _, turn := range s.history {
		role := llms.ChatMessageTypeHuman
		if turn.Role == models.RoleModel {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Text))
	}

	reply, err := s.generate(ctx, messages)
	metrics.Observe(metrics.OpChat, start, err)
	if err != nil {
		s.logger.Warn("chat turn failed, using fallback reply", "session", s.id, "error", err)
		reply = ""
	}
	if reply == "" {
		reply = FallbackReply
	}

	s.history = append(s.history, models.ConversationTurn{Role: models.RoleModel, Text: reply})
	return reply
}

func (s *Session) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	resp, err := s.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
