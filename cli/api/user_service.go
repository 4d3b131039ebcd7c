package api

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/storerate/storerate/internal/browse"
)

// UserService lists users for administrators. It satisfies browse.Fetcher[User].
type UserService interface {
	List(ctx context.Context, q browse.Query) (browse.ListResult[User], error)
	Fetch(ctx context.Context, q browse.Query) (browse.ListResult[User], error)
}

// NewUserService builds a UserService backed by the HTTP client.
func NewUserService(httpClient *resty.Client) UserService {
	if httpClient == nil {
		panic("httpClient is required to build user service")
	}
	return &userAPIService{httpClient: httpClient}
}

type userAPIService struct {
	httpClient *resty.Client
}

func (s *userAPIService) List(ctx context.Context, q browse.Query) (browse.ListResult[User], error) {
	var response envelope
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(listParams(q)).
		SetResult(&response).
		Get("/users")
	if err != nil {
		return browse.ListResult[User]{}, transformRequestError("list users", err)
	}
	if err := checkResponse("list users", resp); err != nil {
		return browse.ListResult[User]{}, err
	}
	rows, total, err := decodeListPage[User](response.Data, "users")
	if err != nil {
		return browse.ListResult[User]{}, &Failure{Op: "list users", Err: err}
	}
	return browse.ListResult[User]{Rows: rows, Total: total}, nil
}

func (s *userAPIService) Fetch(ctx context.Context, q browse.Query) (browse.ListResult[User], error) {
	return s.List(ctx, q)
}
