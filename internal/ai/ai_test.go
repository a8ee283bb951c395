package ai

import (
	"errors"
	"strings"
	"testing"
)

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", errors.New("googleapi: Error 429: too many requests"), true},
		{"unavailable", errors.New("rpc error: code = 503 service unavailable"), true},
		{"quota", errors.New("RESOURCE_EXHAUSTED: quota exceeded"), true},
		{"quota lower", errors.New("resource_exhausted"), true},
		{"overloaded", errors.New("the model is Overloaded, please retry"), true},
		{"bad request", errors.New("googleapi: Error 400: invalid argument"), false},
		{"plain", errors.New("connection refused"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetriable(tc.err); got != tc.want {
				t.Fatalf("IsRetriable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestAnalysisErrorMessage(t *testing.T) {
	err := &AnalysisError{FileName: "cv.pdf", Err: errors.New("boom")}

	if got := err.Error(); got != "analyzing cv.pdf: boom" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestAnalysisErrorAddsOverloadHint(t *testing.T) {
	err := &AnalysisError{FileName: "cv.pdf", Err: errors.New("error 503: overloaded")}

	if !strings.Contains(err.Error(), "temporarily overloaded") {
		t.Fatalf("expected an overload hint in %q", err.Error())
	}
}

func TestAnalysisErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &AnalysisError{FileName: "cv.pdf", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
}
