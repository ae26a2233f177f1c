// ABOUTME: Typed errors returned by the AI gateway.
// ABOUTME: Classifies transport and API failures into user-facing kinds.
package coach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
)

// ErrInvalidResponse means the model replied with data that failed schema or
// structural validation.
var ErrInvalidResponse = errors.New("invalid AI response")

// ErrorKind classifies API failures.
type ErrorKind string

const (
	KindRateLimit      ErrorKind = "rate_limit"
	KindAuth           ErrorKind = "auth"
	KindQuota          ErrorKind = "quota"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindServer         ErrorKind = "server"
	KindTimeout        ErrorKind = "timeout"
	KindUnknown        ErrorKind = "unknown"
)

// APIError wraps a failed gateway call.
type APIError struct {
	Kind        ErrorKind
	StatusCode  int
	UserMessage string
	Err         error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ai request failed (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ai request failed (%s): %v", e.Kind, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

var userMessages = map[ErrorKind]string{
	KindRateLimit:      "Too many requests. Please wait a moment before trying again.",
	KindAuth:           "The AI service rejected the API key. Check OPENAI_API_KEY.",
	KindQuota:          "The AI service quota is exhausted. Please try again later.",
	KindInvalidRequest: "The AI service could not process the request. Please try rephrasing.",
	KindServer:         "The AI service is temporarily unavailable. Please try again.",
	KindTimeout:        "The request took too long to process. Please try again.",
	KindUnknown:        "We're having trouble processing your request right now. Please try again.",
}

// classify converts an error from the OpenAI client into an *APIError.
// ErrInvalidResponse and existing *APIError values pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidResponse) {
		return err
	}
	var existing *APIError
	if errors.As(err, &existing) {
		return err
	}

	kind := KindUnknown
	status := 0

	var apiErr *openai.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindTimeout
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
		kind = kindForStatus(status, strings.ToLower(apiErr.Code+" "+apiErr.Message+" "+apiErr.Error()))
	default:
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "timeout") {
			kind = KindTimeout
		}
	}

	return &APIError{
		Kind:        kind,
		StatusCode:  status,
		UserMessage: userMessages[kind],
		Err:         err,
	}
}

func kindForStatus(status int, msg string) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests && (strings.Contains(msg, "quota") || strings.Contains(msg, "billing")):
		return KindQuota
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

// UserMessage returns a short explanation suitable for showing to the user.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage
	}
	if errors.Is(err, ErrInvalidResponse) {
		return "The AI returned an unexpected response. Please try again."
	}
	return err.Error()
}
