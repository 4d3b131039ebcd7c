package api

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/storerate/storerate/internal/browse"
	"github.com/storerate/storerate/pkg/logger"
)

// StoreService lists stores. It satisfies browse.Fetcher[Store].
type StoreService interface {
	List(ctx context.Context, q browse.Query) (browse.ListResult[Store], error)
	Fetch(ctx context.Context, q browse.Query) (browse.ListResult[Store], error)
}

// NewStoreService builds a StoreService backed by the HTTP client.
func NewStoreService(httpClient *resty.Client) StoreService {
	if httpClient == nil {
		panic("httpClient is required to build store service")
	}
	return &storeAPIService{httpClient: httpClient}
}

type storeAPIService struct {
	httpClient *resty.Client
}

func (s *storeAPIService) List(ctx context.Context, q browse.Query) (browse.ListResult[Store], error) {
	log := logger.FromContext(ctx)
	var response envelope
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(listParams(q)).
		SetResult(&response).
		Get("/stores")
	if err != nil {
		return browse.ListResult[Store]{}, transformRequestError("list stores", err)
	}
	if err := checkResponse("list stores", resp); err != nil {
		return browse.ListResult[Store]{}, err
	}
	rows, total, err := decodeListPage[Store](response.Data, "stores")
	if err != nil {
		return browse.ListResult[Store]{}, &Failure{Op: "list stores", Err: err}
	}
	log.Debug("Stores listed", "count", len(rows), "total", total)
	return browse.ListResult[Store]{Rows: rows, Total: total}, nil
}

func (s *storeAPIService) Fetch(ctx context.Context, q browse.Query) (browse.ListResult[Store], error) {
	return s.List(ctx, q)
}

// listParams encodes a browse query. The wire page number is 1-based.
func listParams(q browse.Query) map[string]string {
	params := q.Criteria.Wire()
	if q.Sort.Field != "" {
		params[ParamSortBy] = q.Sort.Field
		params[ParamOrder] = string(q.Sort.Order)
	}
	if q.Page.Size > 0 {
		params[ParamPage] = strconv.Itoa(q.Page.Index + 1)
		params[ParamLimit] = strconv.Itoa(q.Page.Size)
	}
	return params
}
