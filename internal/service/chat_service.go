package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/pkg/events"
	"yoga-intelligence-be/pkg/llm"
)

const (
	yogaSystemPrompt = `You are an expert yoga instructor and wellness coach.
Provide helpful, accurate, and safe yoga guidance. Focus on:
- Proper alignment and technique
- Safety considerations and modifications
- Breathing techniques (pranayama)
- Mindfulness and meditation guidance
- Beginner-friendly explanations

Always prioritize safety and encourage users to listen to their bodies.`

	ReplyTimeout     = "The AI service is taking too long to respond. Please try again."
	ReplyUnavailable = "I'm experiencing technical difficulties. Please try again later."
	ReplyEmpty       = "I apologize, but I cannot provide a response right now."
	ReplyBlank       = "Ask me anything about your practice: alignment, breathing or meditation."

	maxTrackedSessions = 4096
)

type IChatService interface {
	Reply(ctx context.Context, sessionID, text string) string
	History(sessionID string) []llm.Message
}

// ContextFunc supplies live session context (e.g. the current pose) that is
// appended to the system prompt for each turn.
type ContextFunc func(sessionID string) string

type chatHistory struct {
	mu    sync.Mutex
	turns []llm.Message
}

type chatService struct {
	provider     llm.LLMProvider
	timeout      time.Duration
	historyTurns int
	historiesMu  sync.Mutex
	histories    *expirable.LRU[string, *chatHistory]
	contextFn    ContextFunc
	publisher    IPublisherService
	logger       logger.ILogger
}

func NewChatService(
	provider llm.LLMProvider,
	timeout time.Duration,
	historyTurns int,
	historyTTL time.Duration,
	contextFn ContextFunc,
	publisher IPublisherService,
	log logger.ILogger,
) IChatService {
	if historyTurns < 0 {
		historyTurns = 0
	}
	return &chatService{
		provider:     provider,
		timeout:      timeout,
		historyTurns: historyTurns,
		histories:    expirable.NewLRU[string, *chatHistory](maxTrackedSessions, nil, historyTTL),
		contextFn:    contextFn,
		publisher:    publisher,
		logger:       log,
	}
}

// Reply always returns text. Provider failures become fixed apology replies and
// are not recorded in the history.
func (s *chatService) Reply(ctx context.Context, sessionID, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ReplyBlank
	}

	h := s.history(sessionID)
	h.mu.Lock()
	defer h.mu.Unlock()

	prompt := make([]llm.Message, 0, len(h.turns)+2)
	prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: s.systemPrompt(sessionID)})
	prompt = append(prompt, h.turns...)
	prompt = append(prompt, llm.Message{Role: llm.RoleUser, Content: text})

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	answer, err := s.provider.Chat(callCtx, prompt, llm.WithTemperature(0.7), llm.WithMaxTokens(500))
	if err != nil {
		reply := ReplyUnavailable
		switch {
		case errors.Is(err, llm.ErrEmptyResponse):
			reply = ReplyEmpty
		case errors.Is(callCtx.Err(), context.DeadlineExceeded):
			reply = ReplyTimeout
		}
		s.logger.Warn("ChatService", "LLM call failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return reply
	}

	h.turns = append(h.turns,
		llm.Message{Role: llm.RoleUser, Content: text},
		llm.Message{Role: llm.RoleAssistant, Content: answer},
	)
	if limit := s.historyTurns * 2; len(h.turns) > limit {
		h.turns = append([]llm.Message(nil), h.turns[len(h.turns)-limit:]...)
	}

	if err := s.publisher.Publish(ctx, events.NewSessionEvent(events.ChatAnswered, sessionID, map[string]interface{}{
		"elapsed_ms": time.Since(start).Milliseconds(),
	})); err != nil {
		s.logger.Debug("ChatService", "Event publish failed", map[string]interface{}{"error": err.Error()})
	}
	return answer
}

func (s *chatService) History(sessionID string) []llm.Message {
	h, ok := s.histories.Get(sessionID)
	if !ok {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]llm.Message(nil), h.turns...)
}

func (s *chatService) history(sessionID string) *chatHistory {
	s.historiesMu.Lock()
	defer s.historiesMu.Unlock()
	if h, ok := s.histories.Get(sessionID); ok {
		// Re-add to refresh the TTL of an active conversation.
		s.histories.Add(sessionID, h)
		return h
	}
	h := &chatHistory{}
	s.histories.Add(sessionID, h)
	return h
}

func (s *chatService) systemPrompt(sessionID string) string {
	if s.contextFn == nil {
		return yogaSystemPrompt
	}
	if extra := s.contextFn(sessionID); extra != "" {
		return yogaSystemPrompt + "\n\nContext: " + extra
	}
	return yogaSystemPrompt
}
