package http

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ritwiksharan/event-recommendor/internal/domain/chat"
	"github.com/ritwiksharan/event-recommendor/internal/domain/recommend"
	"github.com/ritwiksharan/event-recommendor/internal/domain/search"
	"github.com/ritwiksharan/event-recommendor/pkg/util"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	recommendSvc recommend.Service
	chatSvc      chat.Service
	sessions     chat.SessionStore
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(recommendSvc recommend.Service, chatSvc chat.Service, sessions chat.SessionStore, logger *slog.Logger) *Handler {
	return &Handler{
		recommendSvc: recommendSvc,
		chatSvc:      chatSvc,
		sessions:     sessions,
		logger:       logger.With("component", "http.handler"),
	}
}

type recommendRequest struct {
	search.Request
	TopN int `json:"topN"`
}

// defaultTopN applies when the request omits topN entirely.
const defaultTopN = 6

type recommendResponse struct {
	SessionID       string                      `json:"sessionId,omitempty"`
	Recommendations recommend.RecommendationSet `json:"recommendations"`
}

// Recommend runs the full pipeline and starts a conversation session around
// the result.
func (h *Handler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	topN := req.TopN
	if topN == 0 {
		topN = defaultTopN
	}

	set, err := h.recommendSvc.Recommend(c.Request.Context(), req.Request, topN)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "recommend_failed"))
		return
	}

	resp := recommendResponse{Recommendations: set}
	if h.sessions != nil {
		now := util.NowUTC()
		session := chat.Session{
			ID:              uuid.NewString(),
			Recommendations: set,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := h.sessions.Save(c.Request.Context(), session); err != nil {
			h.logger.Warn("session save failed", "error", err)
		} else {
			resp.SessionID = session.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}

type askRequest struct {
	SessionID       string                      `json:"sessionId"`
	Question        string                      `json:"question"`
	Recommendations recommend.RecommendationSet `json:"recommendations"`
	History         []chat.Turn                 `json:"history"`
}

type askResponse struct {
	SessionID string      `json:"sessionId,omitempty"`
	Answer    string      `json:"answer"`
	History   []chat.Turn `json:"history"`
}

// Ask answers one follow-up question. The caller either supplies a session ID
// from a previous recommendation, or carries the recommendations and history
// inline for a stateless exchange.
func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	engineReq := chat.Request{
		Recommendations: req.Recommendations,
		History:         req.History,
		Question:        req.Question,
	}

	var session chat.Session
	var haveSession bool
	if req.SessionID != "" && h.sessions != nil {
		var err error
		session, haveSession, err = h.sessions.Get(c.Request.Context(), req.SessionID)
		if err != nil {
			h.logger.Warn("session load failed", "session_id", req.SessionID, "error", err)
		}
		if haveSession {
			engineReq.Recommendations = session.Recommendations
			engineReq.History = session.History
		}
	}

	resp, err := h.chatSvc.Answer(c.Request.Context(), engineReq)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "ask_failed"))
		return
	}

	out := askResponse{
		Answer:  resp.Answer,
		History: resp.History,
	}
	if haveSession {
		session.History = resp.History
		session.UpdatedAt = util.NowUTC()
		if err := h.sessions.Save(c.Request.Context(), session); err != nil {
			h.logger.Warn("session save failed", "session_id", session.ID, "error", err)
		}
		out.SessionID = session.ID
	}

	c.JSON(http.StatusOK, out)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
