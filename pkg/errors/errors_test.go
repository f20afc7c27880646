package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorText(t *testing.T) {
	plain := New(ErrCodeInvalidSpec, "unsupported format %q", "yaml")
	if got := plain.Error(); got != `INVALID_SPEC: unsupported format "yaml"` {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("unexpected EOF")
	wrapped := Wrap(ErrCodeInvalidSpec, cause, "decode json spec")
	if got := wrapped.Error(); got != "INVALID_SPEC: decode json spec: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(wrapped, cause) || errors.Unwrap(wrapped) != cause {
		t.Error("Wrap should keep the cause reachable")
	}
}

func TestCodes(t *testing.T) {
	rate := &RateLimitedError{RetryAfter: 2}
	tests := []struct {
		name   string
		err    error
		code   Code
		status int
	}{
		{"direct", New(ErrCodeNotFound, "diagram not found"), ErrCodeNotFound, http.StatusNotFound},
		{"outer code wins", Wrap(ErrCodeRenderFailed, New(ErrCodeInvalidInput, "x"), "render"), ErrCodeRenderFailed, http.StatusInternalServerError},
		{"through fmt wrap", fmt.Errorf("parse: %w", New(ErrCodeEmptyGraph, "no nodes")), ErrCodeEmptyGraph, http.StatusBadRequest},
		{"rate limited", rate, ErrCodeRateLimited, http.StatusTooManyRequests},
		{"wrapped rate limited", fmt.Errorf("api: %w", rate), ErrCodeRateLimited, http.StatusTooManyRequests},
		{"unsupported", New(ErrCodeUnsupported, "no store"), ErrCodeUnsupported, http.StatusServiceUnavailable},
		{"plain", errors.New("boom"), "", http.StatusInternalServerError},
		{"nil", nil, "", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) should be false")
			}
			if got := HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeInvalidConfig, "invalid JSON config"), "invalid JSON config"},
		{Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidInput, "nodes must be an array"), "arch chart"), "arch chart: nodes must be an array"},
		{Wrap(ErrCodeInvalidSpec, errors.New("line 3"), "decode toml spec"), "decode toml spec: line 3"},
		{errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRateLimitedError(t *testing.T) {
	tests := []struct {
		err  *RateLimitedError
		want string
	}{
		{&RateLimitedError{}, "rate limited"},
		{&RateLimitedError{RetryAfter: 30}, "rate limited: retry after 30 seconds"},
		{&RateLimitedError{RetryAfter: 30, Message: "slow down"}, "slow down"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
