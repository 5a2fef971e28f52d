// Package chat answers follow-up questions about a recommendation set within
// a strict topical boundary.
package chat

import (
	"context"
	"time"

	"github.com/ritwiksharan/event-recommendor/internal/domain/recommend"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one exchange in a conversation. The caller owns the sequence; the
// engine only ever appends.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything the stateless engine needs for one answer.
type Request struct {
	Recommendations recommend.RecommendationSet `json:"recommendations"`
	History         []Turn                      `json:"history"`
	Question        string                      `json:"question"`
}

// Response echoes the history extended by exactly two turns: the question and
// the answer.
type Response struct {
	Answer  string `json:"answer"`
	History []Turn `json:"history"`
}

// Session is the optional persistence unit for conversation continuity. The
// engine itself never reads or writes sessions; handlers do.
type Session struct {
	ID              string                      `json:"id"`
	Recommendations recommend.RecommendationSet `json:"recommendations"`
	History         []Turn                      `json:"history"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

// SessionStore persists sessions across requests.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, bool, error)
}

// Config wires runtime settings for the conversation engine.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
}
