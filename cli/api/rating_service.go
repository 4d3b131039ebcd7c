package api

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/storerate/storerate/pkg/logger"
)

// RatingService submits ratings. It satisfies rating.Submitter.
type RatingService interface {
	Submit(ctx context.Context, storeID string, value int) error
	SubmitRating(ctx context.Context, storeID string, value int) error
}

// NewRatingService builds a RatingService backed by the HTTP client.
func NewRatingService(httpClient *resty.Client) RatingService {
	if httpClient == nil {
		panic("httpClient is required to build rating service")
	}
	return &ratingAPIService{httpClient: httpClient}
}

type ratingAPIService struct {
	httpClient *resty.Client
}

type submitRatingRequest struct {
	StoreID string `json:"store_id"`
	Rating  int    `json:"rating"`
}

func (s *ratingAPIService) Submit(ctx context.Context, storeID string, value int) error {
	log := logger.FromContext(ctx)
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(submitRatingRequest{StoreID: storeID, Rating: value}).
		Post("/ratings")
	if err != nil {
		return transformRequestError("submit rating", err)
	}
	if err := checkResponse("submit rating", resp); err != nil {
		return err
	}
	log.Debug("Rating submitted", "store_id", storeID, "rating", value)
	return nil
}

func (s *ratingAPIService) SubmitRating(ctx context.Context, storeID string, value int) error {
	return s.Submit(ctx, storeID, value)
}
