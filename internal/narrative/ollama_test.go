package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			var req ollamaRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad request body: %v", err)
			}
			if req.Stream {
				t.Error("expected non-streaming request")
			}
			if req.Model != "llama3" {
				t.Errorf("model = %q, want llama3", req.Model)
			}
			json.NewEncoder(w).Encode(ollamaResponse{Response: "generated advice"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama3")
	if !o.Available(context.Background()) {
		t.Fatal("Available = false against a healthy server")
	}
	got, err := o.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "generated advice" {
		t.Fatalf("Generate = %q", got)
	}
}

func TestOllamaUnavailable(t *testing.T) {
	o := NewOllama("http://127.0.0.1:1", "llama3")
	o.HTTPClient = &http.Client{Timeout: 200 * time.Millisecond}
	if o.Available(context.Background()) {
		t.Fatal("Available = true against a dead endpoint")
	}
	if _, err := o.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("Generate succeeded against a dead endpoint")
	}
}

func TestOllamaEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Response: ""})
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama3")
	if _, err := o.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty model response")
	}
}

func TestOllamaServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama3")
	if _, err := o.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
