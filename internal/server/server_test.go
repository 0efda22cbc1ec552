package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/capture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/confirm"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/detector"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/recognition"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/store"
)

func newTestServer(t *testing.T) (*Server, *recognition.Manager) {
	t.Helper()

	catalog := gesture.LoadCatalog(filepath.Join(t.TempDir(), "gestures.json"))
	s, err := store.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	manager := recognition.New(recognition.Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
		Catalog:  catalog,
	})

	machine := confirm.New(confirm.Config{
		Critical: []confirm.CriticalGesture{{GestureID: "fist", Action: "noop", MinConfidence: 0.95}},
	})

	return New(Config{
		Catalog: catalog,
		Store:   s,
		Manager: manager,
		Machine: machine,
	}), manager
}

func getJSON(t *testing.T, srv *Server, path string) (map[string]interface{}, int) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode %s response: %v", path, err)
		}
	}
	return body, rec.Code
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	body, code := getJSON(t, srv, "/api/health")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["hold_phase"] != "idle" {
		t.Errorf("hold_phase = %v, want idle", body["hold_phase"])
	}

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

func TestServer_Active(t *testing.T) {
	srv, _ := newTestServer(t)

	body, code := getJSON(t, srv, "/api/active")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	active, ok := body["active"].([]interface{})
	if !ok {
		t.Fatalf("active field missing: %v", body)
	}
	if len(active) != 0 {
		t.Errorf("active set = %v, want empty before any frame", active)
	}
}

func TestServer_CameraStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	body, code := getJSON(t, srv, "/api/camera/status")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if connected, ok := body["connected"].(bool); !ok || connected {
		t.Errorf("connected = %v, want false for a stopped manager", body["connected"])
	}
}

func TestServer_GestureRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	body, code := getJSON(t, srv, "/api/gestures")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if _, ok := body["gestures"]; !ok {
		t.Errorf("gestures field missing: %v", body)
	}
}

func TestServer_HistoryRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	body, code := getJSON(t, srv, "/api/history/events")
	if code != http.StatusOK {
		t.Fatalf("events status = %d, want 200", code)
	}
	if _, ok := body["events"]; !ok {
		t.Errorf("events field missing: %v", body)
	}

	body, code = getJSON(t, srv, "/api/history/actions")
	if code != http.StatusOK {
		t.Fatalf("actions status = %d, want 200", code)
	}
	if _, ok := body["actions"]; !ok {
		t.Errorf("actions field missing: %v", body)
	}

	_, code = getJSON(t, srv, "/api/history/nope")
	if code != http.StatusNotFound {
		t.Errorf("unknown history path status = %d, want 404", code)
	}
}

func TestEventsHandler_Broadcast(t *testing.T) {
	srv, manager := newTestServer(t)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	// Dispatching on the registry reaches the websocket client. Retry the
	// first dispatch: the server may not have registered the connection yet.
	det := &gesture.Detection{GestureID: "fist", Name: "Fist", Confidence: 0.95, Timestamp: time.Now()}
	ev := recognition.Event{Kind: recognition.KindDetected, GestureID: "fist", Detection: det}

	received := make(chan eventMessage, 1)
	go func() {
		var msg eventMessage
		if err := conn.ReadJSON(&msg); err == nil {
			received <- msg
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		manager.Registry().Dispatch(ev)
		select {
		case msg := <-received:
			if msg.Kind != "detected" || msg.GestureID != "fist" {
				t.Fatalf("received %+v, want detected fist", msg)
			}
			if msg.Confidence != 0.95 {
				t.Errorf("confidence = %f, want 0.95", msg.Confidence)
			}
			return
		case <-deadline:
			t.Fatal("websocket client never received the event")
		case <-time.After(20 * time.Millisecond):
		}
	}
}
