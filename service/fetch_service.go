package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pokedex-cards/logger"
)

// NetworkError is returned when a remote resource answers with a non-success status
type NetworkError struct {
	Context    string
	StatusCode int
	Location   string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Context, e.StatusCode)
}

// FetchService issues GET requests and validates the response status.
// There are no retries and no timeout besides the caller's context.
type FetchService struct {
	client *http.Client
}

// NewFetchService creates a FetchService. A nil client uses http.DefaultClient.
func NewFetchService(client *http.Client) *FetchService {
	if client == nil {
		client = http.DefaultClient
	}
	return &FetchService{client: client}
}

// Ensure FetchService implements FetchServiceInterface
var _ FetchServiceInterface = (*FetchService)(nil)

// FetchAndParse fetches location and decodes the JSON body into out
func (s *FetchService) FetchAndParse(ctx context.Context, location, errorContext string, out any) error {
	resp, err := s.get(ctx, location, errorContext)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to parse response from %s: %w", errorContext, location, err)
	}
	return nil
}

// FetchBytes fetches location and returns the raw body
func (s *FetchService) FetchBytes(ctx context.Context, location, errorContext string) ([]byte, error) {
	resp, err := s.get(ctx, location, errorContext)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response from %s: %w", errorContext, location, err)
	}
	return data, nil
}

func (s *FetchService) get(ctx context.Context, location, errorContext string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid location %q: %w", errorContext, location, err)
	}

	logger.L().Debugf("🌐 GET %s", location)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errorContext, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &NetworkError{
			Context:    errorContext,
			StatusCode: resp.StatusCode,
			Location:   location,
		}
	}
	return resp, nil
}
