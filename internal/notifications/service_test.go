package notifications

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trainyard/internal/config"
)

func newNtfyConfig(topic string) *config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = topic
	cfg.Notifications.Training = true
	cfg.Notifications.Evaluation = true
	cfg.Notifications.Errors = true
	return &cfg
}

func TestNewServiceReturnsNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = "   "
	svc := NewService(&cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyRunCompleted(t.Context(), "lizards"); err != nil {
		t.Fatalf("noop notify returned error: %v", err)
	}
}

func TestNotifyTrainingCompletedSendsMessage(t *testing.T) {
	var gotTitle, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
	}))
	defer server.Close()

	svc := NewService(newNtfyConfig(server.URL))
	if err := svc.NotifyTrainingCompleted(t.Context(), "lizards", "lizards-a1b2c3d4"); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if gotTitle != "Trainyard - Training Complete" {
		t.Fatalf("unexpected title: %q", gotTitle)
	}
	if !strings.Contains(gotBody, "lizards-a1b2c3d4") {
		t.Fatalf("job name missing from body: %q", gotBody)
	}
}

func TestNotifyRespectsEventToggles(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	cfg := newNtfyConfig(server.URL)
	cfg.Notifications.Training = false
	cfg.Notifications.Errors = false
	svc := NewService(cfg)

	if err := svc.NotifyTrainingCompleted(t.Context(), "lizards", "job"); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if err := svc.NotifyRunFailed(t.Context(), "lizards", nil); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected suppressed notifications, got %d requests", requests)
	}
}

func TestNotifySurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewService(newNtfyConfig(server.URL))
	err := svc.TestNotification(t.Context())
	if err == nil || !strings.Contains(err.Error(), "topic quota exceeded") {
		t.Fatalf("expected ntfy error, got %v", err)
	}
}
