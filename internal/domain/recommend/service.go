package recommend

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/ritwiksharan/event-recommendor/internal/domain/events"
	"github.com/ritwiksharan/event-recommendor/internal/domain/search"
	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
	"github.com/ritwiksharan/event-recommendor/internal/infra/llm/claude"
	apperrors "github.com/ritwiksharan/event-recommendor/pkg/errors"
	"github.com/ritwiksharan/event-recommendor/pkg/metrics"
)

// Service is the recommendation pipeline entry point.
type Service interface {
	// Recommend validates the request, runs both collectors concurrently,
	// and scores the joined result. Only an invalid request produces an
	// error; upstream failures degrade into the returned set.
	Recommend(ctx context.Context, req search.Request, topN int) (RecommendationSet, error)

	// Score ranks pre-collected events against forecasts. Exposed separately
	// so callers holding both inputs can re-rank without refetching.
	Score(ctx context.Context, req search.Request, evs []events.Event, forecasts weather.ForecastMap, topN int) RecommendationSet
}

// EventCollector is the events-catalog side of the fan-out.
type EventCollector interface {
	Collect(ctx context.Context, req search.Request) events.CollectionResult
}

// ForecastCollector is the weather side of the fan-out.
type ForecastCollector interface {
	Collect(ctx context.Context, req search.Request) weather.Result
}

// ChatClient is the LLM scoring oracle.
type ChatClient interface {
	CreateMessage(ctx context.Context, req claude.MessageRequest) (claude.MessageResponse, error)
}

type service struct {
	cfg      Config
	events   EventCollector
	weather  ForecastCollector
	client   ChatClient
	logger   *slog.Logger
	encoding *tiktoken.Tiktoken
}

// NewService wires up the recommendation pipeline.
func NewService(cfg Config, eventsSvc EventCollector, weatherSvc ForecastCollector, client ChatClient, logger *slog.Logger) Service {
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 50
	}
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 6
	}
	// Token counting is best effort: without the encoding files a rough
	// character heuristic stands in.
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using character estimate", "error", err)
		encoding = nil
	}
	return &service{
		cfg:      cfg,
		events:   eventsSvc,
		weather:  weatherSvc,
		client:   client,
		logger:   logger.With("component", "recommend.service"),
		encoding: encoding,
	}
}

func (s *service) Recommend(ctx context.Context, req search.Request, topN int) (RecommendationSet, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return RecommendationSet{}, err
	}
	if topN < 1 {
		return RecommendationSet{}, apperrors.Wrap(apperrors.CodeInvalidRequest, "topN must be at least 1", nil)
	}

	// Two independent I/O-bound branches with no shared mutable state. Each
	// degrades to an error-tagged result on its own; a caller cancel via ctx
	// aborts both.
	var (
		evOut events.CollectionResult
		wxOut weather.Result
		wg    sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		evOut = s.events.Collect(ctx, req)
	}()
	go func() {
		defer wg.Done()
		wxOut = s.weather.Collect(ctx, req)
	}()
	wg.Wait()

	var collectErrs []string
	if evOut.Err != "" {
		collectErrs = append(collectErrs, "events: "+evOut.Err)
	}
	if wxOut.Err != "" {
		collectErrs = append(collectErrs, "weather: "+wxOut.Err)
	}

	set := s.Score(ctx, req, evOut.Events, wxOut.Forecasts, topN)
	set.TotalFound = evOut.TotalFound
	set.Errors = append(collectErrs, set.Errors...)
	return set, nil
}

func (s *service) Score(ctx context.Context, req search.Request, evs []events.Event, forecasts weather.ForecastMap, topN int) RecommendationSet {
	if topN < 1 {
		topN = s.cfg.DefaultTopN
	}

	candidates := evs
	if len(candidates) > s.cfg.MaxCandidates {
		candidates = candidates[:s.cfg.MaxCandidates]
	}

	set := RecommendationSet{Request: req, Recommendations: make([]ScoredEvent, len(candidates))}
	for i, ev := range candidates {
		var wx *weather.DailyForecast
		if f, ok := forecasts[ev.Date]; ok {
			fc := f
			wx = &fc
		}
		set.Recommendations[i] = ScoredEvent{Event: ev, Weather: wx, Reason: notScoredReason}
	}
	if len(candidates) == 0 {
		return set
	}

	system := buildScoringSystemPrompt()
	user := buildScoringUserPrompt(req, set.Recommendations)
	s.logger.Info("scoring candidates",
		"candidates", len(candidates),
		"usage", metrics.TokenUsage{PromptTokens: s.countTokens(system) + s.countTokens(user)},
	)

	resp, err := s.client.CreateMessage(ctx, claude.MessageRequest{
		Model:       s.cfg.Model,
		System:      system,
		Messages:    []claude.Message{{Role: "user", Content: user}},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Error("scoring call failed, returning unscored candidates", "error", err)
		set.Errors = append(set.Errors, apperrors.Wrap(apperrors.CodeLLMError, "scoring unavailable", err).Error())
		return finalize(set, topN)
	}

	if usage := oracleUsage(resp.Usage); !usage.IsZero() {
		s.logger.Info("scoring call complete", "usage", usage)
	}

	entries, err := parseScoreArray(resp.Text())
	if err != nil {
		s.logger.Error("scoring response unusable, returning unscored candidates", "error", err)
		set.Errors = append(set.Errors, apperrors.Wrap(apperrors.CodeScoringParse, "scoring response unusable", err).Error())
		return finalize(set, topN)
	}

	// Match by event ID, never by position: the oracle does not guarantee
	// output order.
	byID := make(map[string]scoreEntry, len(entries))
	for _, e := range entries {
		byID[e.EventID] = e
	}
	matched := 0
	for i := range set.Recommendations {
		entry, ok := byID[set.Recommendations[i].Event.ID]
		if !ok {
			continue
		}
		set.Recommendations[i].Score = clampScore(entry.Score)
		if entry.Reason != "" {
			set.Recommendations[i].Reason = entry.Reason
		}
		matched++
	}
	if matched < len(candidates) {
		s.logger.Warn("oracle omitted candidates", "omitted", len(candidates)-matched)
	}

	return finalize(set, topN)
}

// finalize applies the stable descending sort and topN truncation. Ties keep
// the candidate's pre-scoring (date-ascending) order.
func finalize(set RecommendationSet, topN int) RecommendationSet {
	sort.SliceStable(set.Recommendations, func(i, j int) bool {
		return set.Recommendations[i].Score > set.Recommendations[j].Score
	})
	if len(set.Recommendations) > topN {
		set.Recommendations = set.Recommendations[:topN]
	}
	return set
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func oracleUsage(u claude.Usage) metrics.TokenUsage {
	return metrics.TokenUsage{
		PromptTokens:     u.InputTokens,
		CompletionTokens: u.OutputTokens,
		TotalTokens:      u.InputTokens + u.OutputTokens,
	}
}

func (s *service) countTokens(text string) int {
	if s.encoding == nil {
		return len(text) / 4
	}
	return len(s.encoding.Encode(text, nil, nil))
}
