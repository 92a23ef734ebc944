package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"pokedex-cards/logger"
	"pokedex-cards/models"
)

const (
	listErrorContext   = "Error fetching the pokemon list"
	detailErrorContext = "Error fetching the rest of the pokemon data"
)

// PokeAPIClient reads the list and detail endpoints of PokeAPI
type PokeAPIClient struct {
	fetcher           FetchServiceInterface
	listURL           string
	detailURLTemplate string
}

// NewPokeAPIClient creates a new PokeAPIClient.
// detailURLTemplate is used for list entries without a URL, "%s" is replaced by the name.
func NewPokeAPIClient(fetcher FetchServiceInterface, listURL, detailURLTemplate string) *PokeAPIClient {
	return &PokeAPIClient{
		fetcher:           fetcher,
		listURL:           listURL,
		detailURLTemplate: detailURLTemplate,
	}
}

// Ensure PokeAPIClient implements PokemonClientInterface
var _ PokemonClientInterface = (*PokeAPIClient)(nil)

// ListPokemon fetches the first limit entries of the list endpoint
func (c *PokeAPIClient) ListPokemon(ctx context.Context, limit int) ([]models.PokemonListEntry, error) {
	location, err := withLimit(c.listURL, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", listErrorContext, err)
	}

	var list models.PokemonListResponse
	if err := c.fetcher.FetchAndParse(ctx, location, listErrorContext, &list); err != nil {
		return nil, err
	}

	// The API honours the limit, a misbehaving mirror might not
	if len(list.Results) > limit {
		list.Results = list.Results[:limit]
	}
	logger.L().Infof("📦 Fetched pokemon list: %d entries", len(list.Results))
	return list.Results, nil
}

// FetchDetail fetches and converts the detail payload of one pokemon
func (c *PokeAPIClient) FetchDetail(ctx context.Context, location string) (*models.PokemonDetail, error) {
	var resp models.PokemonDetailResponse
	if err := c.fetcher.FetchAndParse(ctx, location, detailErrorContext, &resp); err != nil {
		return nil, err
	}
	return resp.ToDetail(), nil
}

// DetailLocation returns the detail URL of a list entry
func (c *PokeAPIClient) DetailLocation(entry models.PokemonListEntry) string {
	if entry.URL != "" {
		return entry.URL
	}
	return fmt.Sprintf(c.detailURLTemplate, url.PathEscape(entry.Name))
}

func withLimit(listURL string, limit int) (string, error) {
	u, err := url.Parse(strings.TrimSpace(listURL))
	if err != nil {
		return "", fmt.Errorf("invalid list URL %q: %w", listURL, err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
