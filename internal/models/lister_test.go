package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sashabaranov/go-openai"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	err := NewLister("").ListAvailableModels(context.Background(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .smartdict.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func newModelServer(t *testing.T) *Lister {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"id":"tts-1","object":"model"},
			{"id":"gpt-4o","object":"model"},
			{"id":"dall-e-3","object":"model"},
			{"id":"gpt-4o-mini","object":"model"},
			{"id":"gpt-4o-mini-tts","object":"model"},
			{"id":"whisper-1","object":"model"},
			{"id":"gpt-3.5-turbo","object":"model"}
		]}`))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewListerWithConfig("test-key", cfg)
}

func TestChatModels(t *testing.T) {
	got, err := newModelServer(t).ChatModels(context.Background())
	if err != nil {
		t.Fatalf("ChatModels failed: %v", err)
	}

	want := []string{"gpt-3.5-turbo", "gpt-4o", "gpt-4o-mini"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ChatModels mismatch (-want +got):\n%s", diff)
	}
}

func TestListAvailableModels(t *testing.T) {
	var out bytes.Buffer
	if err := newModelServer(t).ListAvailableModels(context.Background(), &out); err != nil {
		t.Fatalf("ListAvailableModels failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"Chat/Translation Models (for translation.openai_model):",
		"  gpt-4o-mini *",
		"  gpt-3.5-turbo",
		"  gpt-4o",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	var out bytes.Buffer
	if err := NewLister(apiKey).ListAvailableModels(context.Background(), &out); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
	t.Log(out.String())
}
