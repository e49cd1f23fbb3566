package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okadapy/persona-bot/config"
	"github.com/okadapy/persona-bot/internal/model"
	"github.com/okadapy/persona-bot/internal/usecase"
)

type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newCompletionUsecase(baseURL string) *usecase.CompletionUsecase {
	return usecase.NewCompletionUsecase(
		config.OpenAI{
			APIKey:  "test-key",
			Model:   "gpt-3.5-turbo",
			BaseURL: baseURL + "/v1",
		},
	)
}

func TestCompleteSuccess(t *testing.T) {
	var gotReq completionRequest
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
					t.Errorf("decode request: %v", err)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(
					[]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there!"},"finish_reason":"stop"}]}`),
				)
			},
		),
	)
	defer srv.Close()

	answer, err := newCompletionUsecase(srv.URL).Complete(context.Background(), "You are Mario.", "Hello")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if answer != "Hi there!" {
		t.Fatalf("unexpected answer %q", answer)
	}

	if gotReq.Model != "gpt-3.5-turbo" {
		t.Fatalf("unexpected model %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected a two-turn prompt, got %d messages", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "You are Mario." {
		t.Fatalf("unexpected system turn %+v", gotReq.Messages[0])
	}
	if gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "Hello" {
		t.Fatalf("unexpected user turn %+v", gotReq.Messages[1])
	}
}

// An unknown model makes token counting fail; the budget check must be
// skipped and the request must still go through.
func TestCompleteCountFailureSkipsBudget(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(
					[]byte(`{"id":"cmpl-3","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there!"},"finish_reason":"stop"}]}`),
				)
			},
		),
	)
	defer srv.Close()

	completionUsecase := usecase.NewCompletionUsecase(
		config.OpenAI{
			APIKey:          "test-key",
			Model:           "mystery-model",
			BaseURL:         srv.URL + "/v1",
			MaxPromptTokens: 1,
		},
	)
	answer, err := completionUsecase.Complete(context.Background(), "You are Mario.", "Hello")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if answer != "Hi there!" {
		t.Fatalf("unexpected answer %q", answer)
	}
}

func TestCompleteUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`this is not json`))
			},
		),
	)
	defer srv.Close()

	_, err := newCompletionUsecase(srv.URL).Complete(context.Background(), "prompt", "text")
	if !errors.Is(err, model.ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	var completionErr *model.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected CompletionError, got %T", err)
	}
	if completionErr.Failure != model.CompletionFailureMalformed {
		t.Fatalf("expected malformed failure, got %s", completionErr.Failure)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			},
		),
	)
	defer srv.Close()

	_, err := newCompletionUsecase(srv.URL).Complete(context.Background(), "prompt", "text")
	if !errors.Is(err, model.ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	var completionErr *model.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected CompletionError, got %T", err)
	}
	if completionErr.Failure != model.CompletionFailureStatus {
		t.Fatalf("expected status failure, got %s", completionErr.Failure)
	}
	if completionErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", completionErr.Status)
	}
}

func TestCompleteMalformedBody(t *testing.T) {
	srv := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"cmpl-2","object":"chat.completion","choices":[]}`))
			},
		),
	)
	defer srv.Close()

	_, err := newCompletionUsecase(srv.URL).Complete(context.Background(), "prompt", "text")
	var completionErr *model.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected CompletionError, got %v", err)
	}
	if completionErr.Failure != model.CompletionFailureMalformed {
		t.Fatalf("expected malformed failure, got %s", completionErr.Failure)
	}
}

func TestCompleteNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := newCompletionUsecase(baseURL).Complete(context.Background(), "prompt", "text")
	if !errors.Is(err, model.ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	var completionErr *model.CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected CompletionError, got %T", err)
	}
	if completionErr.Failure != model.CompletionFailureNetwork {
		t.Fatalf("expected network failure, got %s", completionErr.Failure)
	}
}
