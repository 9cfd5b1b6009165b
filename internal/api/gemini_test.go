package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(srv *httptest.Server) *GeminiClient {
	return NewGeminiClient("key", srv.URL, "gemini-test", 0.7, 2048).
		WithHTTPClient(&http.Client{Timeout: time.Second})
}

func TestGemini_RequestShape(t *testing.T) {
	var got GeminiRequest
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  hello  "}]}}]}`))
	}))
	defer srv.Close()

	text, err := newTestClient(srv).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "hello" {
		t.Fatalf("expected trimmed text, got %q", text)
	}
	if path != "/models/gemini-test:generateContent" || key != "key" {
		t.Fatalf("unexpected endpoint %s key=%s", path, key)
	}
	if len(got.Contents) != 1 || got.Contents[0].Parts[0].Text != "prompt" {
		t.Fatalf("prompt not sent: %+v", got)
	}
	if got.GenerationConfig.Temperature != 0.7 || got.GenerationConfig.MaxOutputTokens != 2048 {
		t.Fatalf("generation config not sent: %+v", got.GenerationConfig)
	}
}

func TestGemini_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{"status_with_message", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
		}, "quota exceeded"},
		{"status_without_body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, "status 500"},
		{"bad_json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not-json")) }, "unmarshaling"},
		{"no_candidates", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"candidates":[]}`)) }, "no response"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := newTestClient(srv).Generate(context.Background(), "hi")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected %q in %v", tc.wantMsg, err)
			}
		})
	}
}

func TestGemini_NoKey(t *testing.T) {
	c := NewGeminiClient("", "http://127.0.0.1:1", "m", 0.7, 10)
	if _, err := c.Generate(context.Background(), "hi"); err == nil {
		t.Fatalf("expected error with missing key")
	}
}

func TestGemini_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`))
	}))
	defer srv.Close()
	if _, err := newTestClient(srv).Generate(context.Background(), "hi"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
