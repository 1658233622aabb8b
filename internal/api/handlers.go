package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/YunseobShin/wall-street/internal/briefing"
	"github.com/YunseobShin/wall-street/internal/client"
	"github.com/YunseobShin/wall-street/internal/dispatch"
	"github.com/YunseobShin/wall-street/internal/models"
	"github.com/YunseobShin/wall-street/internal/store"
	"github.com/YunseobShin/wall-street/internal/trending"
	"github.com/YunseobShin/wall-street/internal/validate"
)

// TrendingFeed ranks trending stocks
type TrendingFeed interface {
	Trending(ctx context.Context, limit int) (*trending.Snapshot, error)
}

// BriefingManager creates, regenerates and reads briefings
type BriefingManager interface {
	Create(ctx context.Context) (*models.Briefing, error)
	Regenerate(ctx context.Context, existing models.Briefing) (*models.Briefing, error)
	GetByID(ctx context.Context, id string) (*models.Briefing, error)
}

// BriefingStore lists briefings and stores local placeholders
type BriefingStore interface {
	Load(ctx context.Context) []models.Briefing
	Upsert(ctx context.Context, b models.Briefing) []models.Briefing
}

// Dispatcher delivers briefings and exposes the dispatch log
type Dispatcher interface {
	Dispatch(ctx context.Context, briefingID string, channel models.Channel, payload dispatch.Payload) (models.DispatchResult, error)
	LogFor(briefingID string) []models.DispatchResult
}

// Subscriptions manages daily delivery subscriptions
type Subscriptions interface {
	Subscribe(ctx context.Context, email, sendTime string) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, email string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	feed          TrendingFeed
	manager       BriefingManager
	store         BriefingStore
	dispatcher    Dispatcher
	subscriptions Subscriptions
	defaultLimit  int
	now           func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(feed TrendingFeed, manager BriefingManager, briefings BriefingStore, dispatcher Dispatcher, subscriptions Subscriptions, defaultLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Handler{
		feed:          feed,
		manager:       manager,
		store:         briefings,
		dispatcher:    dispatcher,
		subscriptions: subscriptions,
		defaultLimit:  defaultLimit,
		now:           time.Now,
	}
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    meta        `json:"meta"`
	Error   *apiError   `json:"error,omitempty"`
}

type meta struct {
	RequestID   string `json:"requestId"`
	GeneratedAt string `json:"generatedAt"`
	Fallback    bool   `json:"fallback,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type top1 struct {
	Symbol         string  `json:"symbol"`
	Score          float64 `json:"score"`
	SelectedReason string  `json:"selectedReason"`
}

// GetTrendingStocks handles GET /trending-stocks
func (h *Handler) GetTrendingStocks(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.respondError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	snap, err := h.feed.Trending(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := map[string]interface{}{
		"date":     snap.Date,
		"timezone": snap.Timezone,
		"items":    snap.Items,
		"top1":     top1{Symbol: snap.Top1.Symbol, Score: snap.Top1.Score, SelectedReason: snap.Top1.SelectedReason},
	}
	h.respond(w, r, http.StatusOK, data, snap.Fallback)
}

// ListBriefings handles GET /briefings
func (h *Handler) ListBriefings(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, h.store.Load(r.Context()), false)
}

// CreateBriefing handles POST /briefings. With ?fallback=placeholder a
// local placeholder is stored when remote generation is unavailable.
func (h *Handler) CreateBriefing(w http.ResponseWriter, r *http.Request) {
	b, err := h.manager.Create(r.Context())
	if err == nil {
		h.respond(w, r, http.StatusCreated, b, false)
		return
	}
	if !briefing.IsGenerationUnavailable(err) || r.URL.Query().Get("fallback") != "placeholder" {
		h.fail(w, r, err)
		return
	}

	log.Printf("api: %v, storing local placeholder", err)
	snap, ferr := h.feed.Trending(r.Context(), h.defaultLimit)
	if ferr != nil {
		h.fail(w, r, ferr)
		return
	}
	placeholder := briefing.Placeholder(snap.Top1, h.now())
	h.store.Upsert(r.Context(), placeholder)
	h.respond(w, r, http.StatusCreated, placeholder, true)
}

// GetBriefing handles GET /briefings/{id}
func (h *Handler) GetBriefing(w http.ResponseWriter, r *http.Request) {
	b, err := h.manager.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, b, false)
}

// RegenerateBriefing handles POST /briefings/{id}/regenerate
func (h *Handler) RegenerateBriefing(w http.ResponseWriter, r *http.Request) {
	existing, err := h.manager.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.manager.Regenerate(r.Context(), *existing)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, b, false)
}

// DispatchBriefing handles POST /briefings/{id}/dispatch
func (h *Handler) DispatchBriefing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel   models.Channel `json:"channel"`
		Recipient string         `json:"recipient"`
		Subject   string         `json:"subject"`
		Text      string         `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body")
		return
	}
	if req.Channel == "" {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "channel is required")
		return
	}

	b, err := h.manager.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	payload := dispatch.Payload{Recipient: req.Recipient, Subject: req.Subject, Text: req.Text}
	if payload.Subject == "" {
		payload.Subject = b.Title
	}
	if payload.Text == "" {
		payload.Text = b.SummaryText
	}

	result, err := h.dispatcher.Dispatch(r.Context(), b.ID, req.Channel, payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, result, false)
}

// ListDispatches handles GET /dispatches?briefingId=
func (h *Handler) ListDispatches(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, h.dispatcher.LogFor(r.URL.Query().Get("briefingId")), false)
}

// Subscribe handles POST /subscriptions
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		SendTimeKST string `json:"send_time_kst"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body")
		return
	}

	sub, err := h.subscriptions.Subscribe(r.Context(), req.Email, req.SendTimeKST)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, sub, false)
}

// Unsubscribe handles DELETE /subscriptions/{email}
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.subscriptions.Unsubscribe(r.Context(), mux.Vars(r)["email"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// fail maps domain errors to HTTP statuses
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case validate.IsValidation(err):
		h.respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, trending.ErrInvalidArgument):
		h.respondError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, store.ErrNotFound):
		h.respondError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, dispatch.ErrDispatchInFlight):
		h.respondError(w, r, http.StatusConflict, "DISPATCH_IN_FLIGHT", err.Error())
	case briefing.IsGenerationUnavailable(err):
		h.respondError(w, r, http.StatusServiceUnavailable, "GENERATION_UNAVAILABLE", err.Error())
	case errors.Is(err, trending.ErrInsufficientData):
		h.respondError(w, r, http.StatusServiceUnavailable, "INSUFFICIENT_DATA", err.Error())
	case client.IsTransport(err):
		h.respondError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
	default:
		log.Printf("api: %s %s failed: %v", r.Method, r.URL.Path, err)
		h.respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, data interface{}, fallback bool) {
	m := h.meta(r)
	m.Fallback = fallback
	respondJSON(w, status, envelope{Success: true, Data: data, Meta: m})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, status, envelope{Meta: h.meta(r), Error: &apiError{Code: code, Message: message}})
}

func (h *Handler) meta(r *http.Request) meta {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = "req_" + uuid.NewString()
	}
	return meta{RequestID: id, GeneratedAt: h.now().UTC().Format(time.RFC3339)}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
