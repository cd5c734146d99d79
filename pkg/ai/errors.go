package ai

import (
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind is the stable category assigned to a failed generation call.
type ErrorKind string

const (
	KindRateLimited    ErrorKind = "rate_limited"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindAuthFailed     ErrorKind = "auth_failed"
	KindTransient      ErrorKind = "transient"
	KindUnknown        ErrorKind = "unknown"
)

// ClassifiedError wraps a provider failure with a stable kind and a retry
// verdict. Message keeps the provider text for logging; callers surface
// their own per-kind wording.
type ClassifiedError struct {
	Kind      ErrorKind
	Retryable bool
	Message   string
	Cause     error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the provider error to errors.Is and errors.As chains.
func (e *ClassifiedError) Unwrap() error { return e.Cause }

var (
	authPatterns = []string{
		"authentication",
		"authorization",
		"forbidden",
		"invalid api key",
	}

	requestPatterns = []string{
		"invalid request",
		"bad request",
		"not found",
	}

	transientPatterns = []string{
		"timeout",
		"connection",
		"network",
		"temporary",
		"service unavailable",
		"internal server error",
		"bad gateway",
		"gateway timeout",
	}
)

// Classify assigns a kind and retry verdict to a generation failure by
// keyword matching over the error text and, for OpenAI API errors, the
// error type and code. Permanent patterns are checked before transient ones
// so a message mentioning both ("invalid request ... timeout") is treated as
// permanent. Already classified errors pass through unchanged.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	text := err.Error()
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		text += " " + apiErr.Type
		if code, ok := apiErr.Code.(string); ok {
			text += " " + code
		}
	}
	// Provider categories arrive snake_cased ("invalid_api_key"); fold them
	// into the phrase-based keyword match.
	text = strings.ToLower(strings.ReplaceAll(text, "_", " "))

	switch {
	case containsAny(text, authPatterns):
		return &ClassifiedError{Kind: KindAuthFailed, Message: err.Error(), Cause: err}
	case containsAny(text, requestPatterns):
		return &ClassifiedError{Kind: KindInvalidRequest, Message: err.Error(), Cause: err}
	case strings.Contains(text, "rate limit"):
		return &ClassifiedError{Kind: KindRateLimited, Retryable: true, Message: err.Error(), Cause: err}
	case containsAny(text, transientPatterns):
		return &ClassifiedError{Kind: KindTransient, Retryable: true, Message: err.Error(), Cause: err}
	default:
		return &ClassifiedError{Kind: KindUnknown, Message: err.Error(), Cause: err}
	}
}

func containsAny(text string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}
