package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex-cards/models"
)

type detailFetcherFunc func(ctx context.Context, location string) (*models.PokemonDetail, error)

func (f detailFetcherFunc) FetchDetail(ctx context.Context, location string) (*models.PokemonDetail, error) {
	return f(ctx, location)
}

func resolved(t *testing.T, id int, name string) *models.Pokemon {
	t.Helper()
	p := models.NewPokemon(name, "url/"+name, id)
	require.NoError(t, p.ResolveDetail(context.Background(), detailFetcherFunc(
		func(ctx context.Context, location string) (*models.PokemonDetail, error) {
			return &models.PokemonDetail{Types: []string{"normal"}}, nil
		})))
	return p
}

func names(pokemon []*models.Pokemon) []string {
	out := make([]string, 0, len(pokemon))
	for _, p := range pokemon {
		out = append(out, p.Name)
	}
	return out
}

func populated(t *testing.T) *CatalogRepository {
	t.Helper()
	repo := NewCatalogRepository()
	require.NoError(t, repo.Populate([]*models.Pokemon{
		resolved(t, 1, "charmander"),
		resolved(t, 2, "charmeleon"),
		resolved(t, 3, "squirtle"),
		resolved(t, 4, "charizard"),
	}))
	return repo
}

func TestCatalogRepository_PopulateKeepsOrder(t *testing.T) {
	repo := populated(t)

	assert.Equal(t, 4, repo.Count())
	assert.Equal(t, []string{"charmander", "charmeleon", "squirtle", "charizard"}, names(repo.All()))
}

func TestCatalogRepository_PopulateOnce(t *testing.T) {
	repo := populated(t)

	err := repo.Populate([]*models.Pokemon{resolved(t, 9, "mew")})

	assert.ErrorIs(t, err, ErrCatalogPopulated)
	assert.Equal(t, 4, repo.Count())
}

func TestCatalogRepository_PopulateRejectsDuplicates(t *testing.T) {
	repo := NewCatalogRepository()

	err := repo.Populate([]*models.Pokemon{resolved(t, 1, "a"), resolved(t, 1, "b")})

	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	assert.Zero(t, repo.Count())
	// A rejected populate leaves the catalog writable
	assert.NoError(t, repo.Populate([]*models.Pokemon{resolved(t, 1, "a")}))
}

func TestCatalogRepository_PopulateRejectsUnresolved(t *testing.T) {
	repo := NewCatalogRepository()

	err := repo.Populate([]*models.Pokemon{models.NewPokemon("a", "url", 1)})

	assert.ErrorIs(t, err, ErrUnresolvedPokemon)
}

func TestCatalogRepository_FilterByName(t *testing.T) {
	repo := populated(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "prefix", query: "char", want: []string{"charmander", "charmeleon", "charizard"}},
		{name: "infix", query: "irt", want: []string{"squirtle"}},
		{name: "case sensitive", query: "Char", want: nil},
		{name: "no match", query: "pika", want: nil},
		{name: "empty query matches all", query: "", want: []string{"charmander", "charmeleon", "squirtle", "charizard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repo.FilterByName(tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, names(got))
		})
	}

	// Filtering never mutates the catalog
	assert.Equal(t, 4, repo.Count())
}

func TestCatalogRepository_FindByID(t *testing.T) {
	repo := populated(t)

	p, err := repo.FindByID(3)
	require.NoError(t, err)
	assert.Equal(t, "squirtle", p.Name)

	_, err = repo.FindByID(42)
	assert.ErrorIs(t, err, ErrNotFound)
}
