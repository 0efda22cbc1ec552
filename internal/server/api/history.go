package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/store"
)

const defaultHistoryLimit = 50

// HistoryHandler serves the persisted event and fired-action history.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler backed by the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// ServeHTTP routes /api/history/events and /api/history/actions.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/history")
	path = strings.Trim(path, "/")

	switch path {
	case "events":
		h.events(w, r)
	case "actions":
		h.actions(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func historyLimit(r *http.Request) int {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return limit
}

type eventResponse struct {
	ID         int64   `json:"id"`
	GestureID  string  `json:"gesture_id"`
	Kind       string  `json:"kind"`
	Confidence float64 `json:"confidence"`
	HandIndex  int     `json:"hand_index"`
	OccurredAt string  `json:"occurred_at"`
}

func (h *HistoryHandler) events(w http.ResponseWriter, r *http.Request) {
	limit := historyLimit(r)
	gestureID := r.URL.Query().Get("gesture_id")

	var (
		records []*store.EventRecord
		err     error
	)
	if gestureID != "" {
		records, err = h.store.Events().ListByGesture(gestureID, limit)
	} else {
		records, err = h.store.Events().ListRecent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	events := make([]eventResponse, 0, len(records))
	for _, e := range records {
		events = append(events, eventResponse{
			ID:         e.ID,
			GestureID:  e.GestureID,
			Kind:       e.Kind,
			Confidence: e.Confidence,
			HandIndex:  e.HandIndex,
			OccurredAt: e.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

type firedActionResponse struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	GestureID string `json:"gesture_id"`
	Action    string `json:"action"`
	FiredAt   string `json:"fired_at"`
}

func (h *HistoryHandler) actions(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.FiredActions().ListRecent(historyLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fired actions")
		return
	}

	actions := make([]firedActionResponse, 0, len(records))
	for _, a := range records {
		actions = append(actions, firedActionResponse{
			ID:        a.ID,
			SessionID: a.SessionID,
			GestureID: a.GestureID,
			Action:    a.Action,
			FiredAt:   a.FiredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"actions": actions})
}
