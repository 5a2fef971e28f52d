// Package recommend joins catalog events with forecasts, scores them through
// the LLM oracle, and produces a ranked recommendation set.
package recommend

import (
	"github.com/ritwiksharan/event-recommendor/internal/domain/events"
	"github.com/ritwiksharan/event-recommendor/internal/domain/search"
	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
)

// ScoredEvent pairs an event with its same-day forecast and the oracle's
// verdict. Weather is nil when no forecast covers the event date.
type ScoredEvent struct {
	Event   events.Event           `json:"event"`
	Weather *weather.DailyForecast `json:"weather,omitempty"`
	Score   float64                `json:"score"`
	Reason  string                 `json:"reason"`
}

// RecommendationSet is the ranked result handed to the caller and to the
// conversation engine. Errors carries non-fatal collector and scoring
// failures for display and telemetry; the set itself is always structurally
// valid.
type RecommendationSet struct {
	Request         search.Request `json:"request"`
	Recommendations []ScoredEvent  `json:"recommendations"`
	TotalFound      int            `json:"totalFound"`
	Errors          []string       `json:"errors,omitempty"`
}

// Config wires runtime settings for the scoring engine.
type Config struct {
	Model         string
	Temperature   float32
	MaxTokens     int
	MaxCandidates int
	DefaultTopN   int
}

// notScoredReason marks candidates the oracle did not reference. The score
// stays exactly 0 so averaging metrics are never skewed by silent defaults.
const notScoredReason = "Not scored"
