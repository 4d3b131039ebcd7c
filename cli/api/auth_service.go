package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/storerate/storerate/pkg/session"
)

// AuthService resolves the authenticated principal
type AuthService interface {
	Me(ctx context.Context) (*session.User, error)
}

// NewAuthService builds an AuthService backed by the HTTP client.
func NewAuthService(httpClient *resty.Client) AuthService {
	if httpClient == nil {
		panic("httpClient is required to build auth service")
	}
	return &authAPIService{httpClient: httpClient}
}

type authAPIService struct {
	httpClient *resty.Client
}

// Me accepts {"data": {...user}} and {"data": {"user": {...}}}
func (s *authAPIService) Me(ctx context.Context) (*session.User, error) {
	var response envelope
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetResult(&response).
		Get("/auth/me")
	if err != nil {
		return nil, transformRequestError("fetch session", err)
	}
	if err := checkResponse("fetch session", resp); err != nil {
		return nil, err
	}
	var wrapped struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(response.Data, &wrapped); err == nil && wrapped.User != nil {
		u := wrapped.User.SessionUser()
		return &u, nil
	}
	var user User
	if err := json.Unmarshal(response.Data, &user); err != nil {
		return nil, &Failure{Op: "fetch session", Err: fmt.Errorf("failed to decode user: %w", err)}
	}
	if user.ID == "" {
		return nil, &Failure{Op: "fetch session", Err: fmt.Errorf("response carries no user")}
	}
	u := user.SessionUser()
	return &u, nil
}
