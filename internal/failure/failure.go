// Package failure turns arbitrary errors into messages fit for end users.
package failure

import (
	"errors"
	"strings"
)

// Messager is implemented by errors that carry a server-provided message
type Messager interface {
	UserMessage() string
}

// Message returns the first non-empty user message found in err's chain,
// or fallback when none is available.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var m Messager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}
