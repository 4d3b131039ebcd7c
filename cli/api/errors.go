package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/storerate/storerate/cli/helpers"
)

// Failure is a normalized API or transport error. Message holds the
// server-provided explanation when there is one.
type Failure struct {
	Status  int
	Message string
	Op      string
	Err     error
}

func (f *Failure) Error() string {
	var b strings.Builder
	if f.Op != "" {
		b.WriteString(f.Op)
		b.WriteString(": ")
	}
	switch {
	case f.Message != "" && f.Status != 0:
		fmt.Fprintf(&b, "%s (status %d)", f.Message, f.Status)
	case f.Status != 0:
		fmt.Fprintf(&b, "%s (status %d)", statusDescription(f.Status), f.Status)
	case f.Err != nil:
		b.WriteString(f.Err.Error())
	default:
		b.WriteString("request failed")
	}
	return b.String()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// UserMessage returns the server-provided message, empty when there is none
func (f *Failure) UserMessage() string {
	return f.Message
}

// IsUnauthorized reports whether err is an authentication failure
func IsUnauthorized(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Status == http.StatusNotFound
}

// transformRequestError wraps transport errors that happen before a response arrives
func transformRequestError(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return &Failure{Op: op, Err: fmt.Errorf("request canceled by user: %w", err)}
	case helpers.IsTimeoutError(err):
		return &Failure{Op: op, Err: fmt.Errorf("%w: %w", helpers.ErrTimeout, err)}
	case helpers.IsNetworkError(err):
		return &Failure{Op: op, Err: helpers.NewNetworkError(op, err)}
	default:
		return &Failure{Op: op, Err: err}
	}
}

// checkResponse turns non-2xx responses into a Failure
func checkResponse(op string, resp *resty.Response) error {
	if resp == nil {
		return &Failure{Op: op, Err: errors.New("empty response")}
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	f := &Failure{Op: op, Status: resp.StatusCode(), Message: parseAPIError(resp)}
	if f.Status == http.StatusTooManyRequests {
		if ra := strings.TrimSpace(resp.Header().Get("Retry-After")); ra != "" {
			f.Err = fmt.Errorf("rate limit exceeded: retry after %s", ra)
		}
	}
	return f
}

func statusDescription(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "authentication failed: please check your API key"
	case http.StatusForbidden:
		return "permission denied"
	case http.StatusNotFound:
		return "not found"
	case http.StatusTooManyRequests:
		return "rate limit exceeded: please retry later"
	default:
		if code >= http.StatusInternalServerError {
			return "server error: try again later"
		}
		return "API error"
	}
}

// parseAPIError extracts the message from an error envelope
func parseAPIError(resp *resty.Response) string {
	if resp == nil {
		return ""
	}
	body := resp.Body()
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	message := strings.TrimSpace(envelope.Message)
	if message == "" {
		message = strings.TrimSpace(envelope.Error)
	}
	if message == "" {
		return ""
	}
	if len(envelope.Details) == 0 || string(envelope.Details) == "null" {
		return message
	}
	var details string
	if err := json.Unmarshal(envelope.Details, &details); err == nil && strings.TrimSpace(details) != "" {
		return fmt.Sprintf("%s: %s", message, strings.TrimSpace(details))
	}
	return message
}
