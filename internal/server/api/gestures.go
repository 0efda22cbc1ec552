// Package api provides the HTTP API handlers for the gesture recognition
// service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
)

// GestureHandler handles HTTP requests for gesture definition resources.
type GestureHandler struct {
	catalog *gesture.Catalog
}

// NewGestureHandler creates a new GestureHandler backed by the given catalog.
func NewGestureHandler(c *gesture.Catalog) *GestureHandler {
	return &GestureHandler{catalog: c}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/gestures or /api/gestures/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type gestureRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Landmarks [][]int `json:"landmarks"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"`
}

type gestureResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Landmarks [][]int `json:"landmarks"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action,omitempty"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a gesture.Definition to a gestureResponse.
func toResponse(d gesture.Definition) gestureResponse {
	return gestureResponse{
		ID:        d.ID,
		Name:      d.Name,
		Landmarks: d.Topology,
		Threshold: d.Threshold,
		Action:    d.Action,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/gestures and returns all gesture definitions.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	defs := h.catalog.Definitions()

	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(defs)),
	}
	for _, d := range defs {
		response.Gestures = append(response.Gestures, toResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/gestures/{id} and returns a single definition.
func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	def, ok := h.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Gesture not found")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(def))
}

// create handles POST /api/gestures and adds a new definition to the catalog.
func (h *GestureHandler) create(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	name := req.Name
	if name == "" {
		name = id
	}

	def := gesture.Definition{
		ID:        id,
		Name:      name,
		Topology:  req.Landmarks,
		Threshold: req.Threshold,
		Action:    req.Action,
	}

	if err := h.catalog.Add(def); err != nil {
		if errors.Is(err, gesture.ErrDuplicateID) {
			writeError(w, http.StatusConflict, "Gesture id already exists")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(def))
}

// update handles PUT /api/gestures/{id} and replaces the definition's fields.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	def, ok := h.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Gesture not found")
		return
	}

	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided; the id is fixed
	if req.Name != "" {
		def.Name = req.Name
	}
	if req.Landmarks != nil {
		def.Topology = req.Landmarks
	}
	if req.Threshold != 0 {
		def.Threshold = req.Threshold
	}
	if req.Action != "" {
		def.Action = req.Action
	}

	if err := h.catalog.Update(def); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toResponse(def))
}

// delete handles DELETE /api/gestures/{id} and removes a definition.
func (h *GestureHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.catalog.Remove(id); err != nil {
		if errors.Is(err, gesture.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
