package config

import (
	"encoding/json"
)

const redacted = "[REDACTED]"

// SensitiveString holds a secret that must never be printed or logged.
type SensitiveString string

// String returns a redacted representation for non-empty values
func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the underlying secret
func (s SensitiveString) Value() string {
	return string(s)
}

func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SensitiveString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = SensitiveString(v)
	return nil
}

// MarshalYAML keeps secrets out of `config show -f yaml`
func (s SensitiveString) MarshalYAML() (any, error) {
	return s.String(), nil
}
