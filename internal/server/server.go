// Package server provides the HTTP facade for the gesture recognition
// service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/confirm"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/recognition"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/server/api"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Catalog   *gesture.Catalog
	Store     *store.Store
	Manager   *recognition.Manager
	Machine   *confirm.Machine
}

// Server represents the HTTP server for the recognition service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Catalog != nil {
		gestureHandler := api.NewGestureHandler(s.config.Catalog)
		s.mux.Handle("/api/gestures", gestureHandler)
		s.mux.Handle("/api/gestures/", gestureHandler)
	}

	if s.config.Store != nil {
		historyHandler := api.NewHistoryHandler(s.config.Store)
		s.mux.Handle("/api/history/", historyHandler)
	}

	if s.config.Manager != nil {
		s.mux.HandleFunc("/api/active", s.handleActive)
		s.mux.HandleFunc("/api/camera/status", s.handleCameraStatus)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Manager))

		if s.config.Catalog != nil {
			s.mux.Handle("/api/events", NewEventsHandler(s.config.Manager.Registry(), s.config.Catalog))
		}
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Machine != nil {
		phase, gestureID := s.config.Machine.State()
		response["hold_phase"] = phase.String()
		if gestureID != "" {
			response["hold_gesture"] = gestureID
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type activeGestureResponse struct {
	GestureID  string  `json:"gesture_id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	HandIndex  int     `json:"hand_index"`
	Timestamp  string  `json:"timestamp"`
}

// handleActive handles GET /api/active and returns the currently active
// gesture set.
func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	active := s.config.Manager.ActiveGestures()
	response := make([]activeGestureResponse, 0, len(active))
	for id, d := range active {
		response = append(response, activeGestureResponse{
			GestureID:  id,
			Name:       d.Name,
			Confidence: d.Confidence,
			HandIndex:  d.HandIndex,
			Timestamp:  d.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"active": response})
}

// handleCameraStatus handles GET /api/camera/status.
func (s *Server) handleCameraStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := s.config.Manager.CameraStatus()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"connected":  status.Connected,
		"device_id":  status.DeviceID,
		"width":      status.Width,
		"height":     status.Height,
		"target_fps": status.TargetFPS,
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
