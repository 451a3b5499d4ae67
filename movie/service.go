package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/svega/cinelist/api"
)

// Service performs movie operations against the backend.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

// NewService creates a new movie service.
func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// listData is the data payload of GET /movies.
type listData struct {
	Movies []Movie `json:"movies"`
	Total  int     `json:"total"`
}

// searchResponse is the top-level shape of GET /movies/search. Unlike
// the other endpoints it carries results outside the data envelope.
type searchResponse struct {
	Success bool           `json:"success"`
	Results []SearchResult `json:"results"`
}

// List fetches the user's full collection. An empty collection is a
// valid result, not an error.
func (s *Service) List(ctx context.Context) ([]Movie, error) {
	body, err := s.client.Get(ctx, "/movies", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	var data listData
	if err := api.DecodeData(body, &data); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(data.Movies)).Msg("Retrieved movies")
	return data.Movies, nil
}

// Get fetches a single movie by id.
func (s *Service) Get(ctx context.Context, id int64) (*Movie, error) {
	body, err := s.client.Get(ctx, fmt.Sprintf("/movies/%d", id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}

	var m Movie
	if err := api.DecodeData(body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create adds a movie to the collection and returns it with the
// server-assigned id and timestamps. Fields are validated locally
// before the request is sent.
func (s *Service) Create(ctx context.Context, fields Fields) (*Movie, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	body, err := s.client.Post(ctx, "/movies", fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	var m Movie
	if err := api.DecodeData(body, &m); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("movie_id", m.ID).Str("title", m.Title).Msg("Movie created")
	return &m, nil
}

// Update replaces all fields of an existing movie. Updating a movie
// owned by another user surfaces as an authorization error from the
// backend.
func (s *Service) Update(ctx context.Context, id int64, fields Fields) (*Movie, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	body, err := s.client.Put(ctx, fmt.Sprintf("/movies/%d", id), fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update movie %d: %w", id, err)
	}

	var m Movie
	if err := api.DecodeData(body, &m); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("movie_id", m.ID).Str("title", m.Title).Msg("Movie updated")
	return &m, nil
}

// Delete removes a movie from the collection. Deleting an unknown id
// surfaces as a not-found error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.client.Delete(ctx, fmt.Sprintf("/movies/%d", id)); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}

	s.logger.Info().Int64("movie_id", id).Msg("Movie deleted")
	return nil
}

// Search queries the external catalog by title. A blank query returns
// no results without issuing a request; zero hits is an empty slice,
// not an error.
func (s *Service) Search(ctx context.Context, title string) ([]SearchResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("title", title)

	body, err := s.client.Get(ctx, "/movies/search", params)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	s.logger.Debug().Str("title", title).Int("results", len(resp.Results)).Msg("Catalog search")
	return resp.Results, nil
}
