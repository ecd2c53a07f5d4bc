package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSendsSystemPromptAndHistory(t *testing.T) {
	var gotAuth string
	var gotReq openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Привет!  "}}]}`))
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	reply, err := gen.Generate(context.Background(), "Как дела?", []Turn{
		{Role: "user", Content: "Привет"},
		{Role: "assistant", Content: "Здравствуйте!"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply != "Привет!" {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotReq.Model != defaultOpenAIModel {
		t.Fatalf("expected default model, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 4 {
		t.Fatalf("expected system + history + user, got %d messages", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[3].Content != "Как дела?" {
		t.Fatalf("unexpected message order: %+v", gotReq.Messages)
	}
}

func TestGenerateRejectsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	gen, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if _, err := gen.Generate(context.Background(), "hi", nil); err == nil {
		t.Fatal("expected error from upstream failure")
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIOptions{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
