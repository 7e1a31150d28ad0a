package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "connection problem" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network timeout", &fakeNetError{timeout: true}, true},
		{"connection refused", &fakeNetError{timeout: false}, true},
		{"google 429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"google 503", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"google 401", &googleapi.Error{Code: http.StatusUnauthorized}, false},
		{"google 400", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"openai 429", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"openai 500", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, true},
		{"openai 401", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, false},
		{"openai request 502", &openai.RequestError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"wrapped retryable", fmt.Errorf("calling model: %w", &googleapi.Error{Code: http.StatusBadGateway}), true},
		{"plain error", stderrors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExecuteWithRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	result, err := executeWithRetry(context.Background(), "test_op", 3, testLogger,
		func() (string, error) {
			calls++
			if calls < 2 {
				return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
			}
			return "ok", nil
		})
	if err != nil {
		t.Fatalf("executeWithRetry: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want ok", result)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestExecuteWithRetryStopsOnTerminalError(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), "test_op", 3, testLogger,
		func() (string, error) {
			calls++
			return "", &googleapi.Error{Code: http.StatusUnauthorized}
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("terminal error should not be retried, got %d calls", calls)
	}
}

func TestExecuteWithRetryHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := executeWithRetry(ctx, "test_op", 5, testLogger,
		func() (string, error) {
			calls++
			cancel()
			return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
		})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
