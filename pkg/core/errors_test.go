package core

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Type:    ErrMissingResult,
		Message: "no image data in response",
	}

	expected := "missing_result_error: no image data in response"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestError_WithCode(t *testing.T) {
	err := &Error{
		Type:    ErrRateLimit,
		Message: "too many requests",
		Code:    "rate_limit_exceeded",
	}

	expected := "rate_limit_error: too many requests (code: rate_limit_exceeded)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNormalize_RateLimit(t *testing.T) {
	cases := []string{
		"googleapi: Error 429: RESOURCE_EXHAUSTED",
		"Quota exceeded for quota metric",
		"rate limit hit, slow down",
	}
	for _, msg := range cases {
		got := Normalize(errors.New(msg))
		if got.Type != ErrRateLimit {
			t.Errorf("Normalize(%q).Type = %v, want %v", msg, got.Type, ErrRateLimit)
		}
		if got.Message == msg {
			t.Errorf("Normalize(%q) should replace the raw message", msg)
		}
	}
}

func TestNormalize_PolicyBlocked(t *testing.T) {
	got := Normalize(errors.New("candidate was BLOCKED due to SAFETY"))
	if got.Type != ErrPolicyBlocked {
		t.Errorf("Type = %v, want %v", got.Type, ErrPolicyBlocked)
	}
}

func TestNormalize_GenericPreservesMessage(t *testing.T) {
	raw := errors.New("unexpected EOF")
	got := Normalize(raw)
	if got.Type != ErrAPI {
		t.Errorf("Type = %v, want %v", got.Type, ErrAPI)
	}
	if got.Message != "unexpected EOF" {
		t.Errorf("Message = %q, want original message preserved", got.Message)
	}
	if !errors.Is(got, raw) {
		t.Error("normalized error should wrap the raw failure")
	}
}

func TestNormalize_PassThrough(t *testing.T) {
	typed := NewPermissionError("microphone access denied")
	if got := Normalize(typed); got != typed {
		t.Error("already-normalized errors should pass through unchanged")
	}
}

func TestNormalize_Nil(t *testing.T) {
	if got := Normalize(nil); got != nil {
		t.Errorf("Normalize(nil) = %v, want nil", got)
	}
}

func TestNewNormalizer_ExtraClassifier(t *testing.T) {
	n := NewNormalizer(func(message string) (ErrorType, bool) {
		if message == "boom" {
			return ErrTransport, true
		}
		return "", false
	})
	got := n.Normalize(errors.New("boom"))
	if got.Type != ErrTransport {
		t.Errorf("Type = %v, want %v", got.Type, ErrTransport)
	}
}
