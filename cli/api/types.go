package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/storerate/storerate/pkg/session"
)

// ID accepts both string and numeric identifiers from the backend
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Store is one row of the store listing
type Store struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	// OverallRating is nil when the store has no ratings yet
	OverallRating *float64 `json:"overall_rating"`
	// UserSubmittedRating is the caller's own rating, nil when unset
	UserSubmittedRating *int `json:"user_submitted_rating"`
}

// PreviousRating returns the caller's rating or 0 when unset
func (s Store) PreviousRating() int {
	if s.UserSubmittedRating == nil {
		return 0
	}
	return *s.UserSubmittedRating
}

// OverallLabel renders the aggregate with one decimal, or N/A
func (s Store) OverallLabel() string {
	if s.OverallRating == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*s.OverallRating, 'f', 1, 64)
}

// UserRatingLabel renders the caller's rating, or N/A
func (s Store) UserRatingLabel() string {
	if s.UserSubmittedRating == nil || *s.UserSubmittedRating == 0 {
		return "N/A"
	}
	return strconv.Itoa(*s.UserSubmittedRating)
}

// User is one row of the admin user directory
type User struct {
	ID      ID           `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Address string       `json:"address"`
	Role    session.Role `json:"role"`
}

// SessionUser converts the wire user to the session principal
func (u User) SessionUser() session.User {
	return session.User{
		ID:      u.ID.String(),
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
		Role:    u.Role,
	}
}

// envelope is the common response shape {"data": ..., "message": ...}
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// decodeListPage accepts {"<key>": [...], "total": n} or a bare array
func decodeListPage[T any](data json.RawMessage, key string) ([]T, int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return []T{}, 0, nil
	}
	if data[0] == '[' {
		var rows []T
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, 0, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		return rows, len(rows), nil
	}
	var page map[string]json.RawMessage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s page: %w", key, err)
	}
	rows := []T{}
	if raw, ok := page[key]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, 0, fmt.Errorf("failed to decode %s: %w", key, err)
		}
	}
	total := len(rows)
	if raw, ok := page["total"]; ok {
		if err := json.Unmarshal(raw, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to decode %s total: %w", key, err)
		}
	}
	return rows, total, nil
}
