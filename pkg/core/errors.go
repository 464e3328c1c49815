package core

import (
	"fmt"
	"strings"
)

// Error is a normalized, user-presentable failure.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`

	// Cause retains the raw backend failure for logging; it is not part of
	// the user-facing message.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the raw failure this error was normalized from.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ErrorType categorizes errors.
type ErrorType string

const (
	ErrRateLimit     ErrorType = "rate_limit_error"
	ErrPolicyBlocked ErrorType = "policy_blocked_error"
	ErrMissingResult ErrorType = "missing_result_error"
	ErrTransport     ErrorType = "transport_error"
	ErrPermission    ErrorType = "permission_denied_error"
	ErrAPI           ErrorType = "api_error"
)

// NewRateLimitError creates a rate limit error.
func NewRateLimitError(message string) *Error {
	return &Error{
		Type:    ErrRateLimit,
		Message: message,
	}
}

// NewPolicyBlockedError creates a content-policy rejection error.
func NewPolicyBlockedError(message string) *Error {
	return &Error{
		Type:    ErrPolicyBlocked,
		Message: message,
	}
}

// NewMissingResultError creates an error for a backend response that carried
// no usable media or text.
func NewMissingResultError(message string) *Error {
	return &Error{
		Type:    ErrMissingResult,
		Message: message,
	}
}

// NewTransportError creates a connection-level error.
func NewTransportError(op string, underlying error) *Error {
	return &Error{
		Type:    ErrTransport,
		Message: fmt.Sprintf("%s: %v", op, underlying),
		Cause:   underlying,
	}
}

// NewPermissionError creates a local media permission error.
func NewPermissionError(message string) *Error {
	return &Error{
		Type:    ErrPermission,
		Message: message,
	}
}

// NewAPIError creates a generic API error.
func NewAPIError(message string) *Error {
	return &Error{
		Type:    ErrAPI,
		Message: message,
	}
}

// Classifier inspects a raw failure message and reports a matching error
// type. Classifiers are heuristics: the backend does not expose typed
// errors, so matching is case-insensitive substring inspection.
type Classifier func(message string) (ErrorType, bool)

func substringClassifier(typ ErrorType, needles ...string) Classifier {
	return func(message string) (ErrorType, bool) {
		for _, needle := range needles {
			if strings.Contains(message, needle) {
				return typ, true
			}
		}
		return "", false
	}
}

// defaultClassifiers is ordered: the first match wins.
var defaultClassifiers = []Classifier{
	substringClassifier(ErrRateLimit,
		"quota", "rate limit", "resource_exhausted", "resource exhausted", "429"),
	substringClassifier(ErrPolicyBlocked,
		"safety", "blocked", "prohibited_content", "prohibited content"),
}

// Normalizer maps arbitrary backend failures into the error taxonomy.
// The zero value is not usable; construct with NewNormalizer.
type Normalizer struct {
	classifiers []Classifier
}

// NewNormalizer returns a Normalizer with the default quota/safety
// classifiers, followed by any extras in order.
func NewNormalizer(extra ...Classifier) *Normalizer {
	return &Normalizer{
		classifiers: append(append([]Classifier(nil), defaultClassifiers...), extra...),
	}
}

// Normalize maps a raw failure to a *Error. Already-normalized errors pass
// through unchanged. A nil input returns nil.
func (n *Normalizer) Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	if typed, ok := err.(*Error); ok {
		return typed
	}

	message := strings.ToLower(err.Error())
	for _, classify := range n.classifiers {
		typ, ok := classify(message)
		if !ok {
			continue
		}
		switch typ {
		case ErrRateLimit:
			return &Error{Type: ErrRateLimit, Message: "You've hit the request limit. Wait a moment and try again.", Cause: err}
		case ErrPolicyBlocked:
			return &Error{Type: ErrPolicyBlocked, Message: "The request was blocked by the content policy.", Cause: err}
		default:
			return &Error{Type: typ, Message: err.Error(), Cause: err}
		}
	}
	return &Error{Type: ErrAPI, Message: err.Error(), Cause: err}
}

// Normalize maps a raw failure using the default classifier set.
func Normalize(err error) *Error {
	return NewNormalizer().Normalize(err)
}
