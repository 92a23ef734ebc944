package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex-cards/models"
)

type detailFetcherFunc func(ctx context.Context, location string) (*models.PokemonDetail, error)

func (f detailFetcherFunc) FetchDetail(ctx context.Context, location string) (*models.PokemonDetail, error) {
	return f(ctx, location)
}

var testColors = models.TypeColorTable{
	Fallback: "#68A090",
	Types: map[string]string{
		"grass":  "#78C850",
		"poison": "#A040A0",
		"fire":   "#F08030",
		"flying": "#A890F0",
	},
}

func resolvedPokemon(t *testing.T, id int, name string, detail models.PokemonDetail) *models.Pokemon {
	t.Helper()
	p := models.NewPokemon(name, "https://pokeapi.co/api/v2/pokemon/"+name+"/", id)
	require.NoError(t, p.ResolveDetail(context.Background(), detailFetcherFunc(
		func(ctx context.Context, location string) (*models.PokemonDetail, error) {
			d := detail
			return &d, nil
		})))
	return p
}

func moves(n int) []string {
	all := []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9"}
	return all[:n]
}

func TestRenderCard_SingleTypeGradient(t *testing.T) {
	p := resolvedPokemon(t, 4, "charmander", models.PokemonDetail{Types: []string{"fire"}})

	card, err := NewCardRenderer(testColors, false).RenderCard(p)

	require.NoError(t, err)
	assert.Equal(t, "#F08030", card.GradientStart)
	assert.Equal(t, card.GradientStart, card.GradientEnd)
}

func TestRenderCard_FirstTwoTypesGradient(t *testing.T) {
	tests := []struct {
		name      string
		types     []string
		wantStart string
		wantEnd   string
	}{
		{name: "two types", types: []string{"grass", "poison"}, wantStart: "#78C850", wantEnd: "#A040A0"},
		{name: "extra types ignored", types: []string{"fire", "flying", "grass"}, wantStart: "#F08030", wantEnd: "#A890F0"},
		{name: "unknown type uses fallback", types: []string{"shadow", "fire"}, wantStart: "#68A090", wantEnd: "#F08030"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := resolvedPokemon(t, 1, "mon", models.PokemonDetail{Types: tt.types})

			card, err := NewCardRenderer(testColors, false).RenderCard(p)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, card.GradientStart)
			assert.Equal(t, tt.wantEnd, card.GradientEnd)
			assert.Len(t, card.Pills, len(tt.types))
		})
	}
}

func TestRenderCard_Pills(t *testing.T) {
	p := resolvedPokemon(t, 1, "bulbasaur", models.PokemonDetail{Types: []string{"grass", "poison"}})

	card, err := NewCardRenderer(testColors, false).RenderCard(p)

	require.NoError(t, err)
	assert.Equal(t, []models.TypePill{
		{Label: "Grass", Color: "#78C850"},
		{Label: "Poison", Color: "#A040A0"},
	}, card.Pills)
}

func TestRenderCard_MovesTruncation(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{name: "none", count: 0, want: "..."},
		{name: "fewer than six", count: 3, want: "m1, m2, m3..."},
		{name: "exactly six", count: 6, want: "m1, m2, m3, m4, m5, m6..."},
		{name: "more than six", count: 9, want: "m1, m2, m3, m4, m5, m6..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := resolvedPokemon(t, 1, "mon", models.PokemonDetail{Types: []string{"fire"}, Moves: moves(tt.count)})

			card, err := NewCardRenderer(testColors, false).RenderCard(p)

			require.NoError(t, err)
			assert.Equal(t, tt.want, card.MovesText)
		})
	}
}

func TestRenderCard_StatsAndMeasures(t *testing.T) {
	p := resolvedPokemon(t, 1, "bulbasaur", models.PokemonDetail{
		Types:  []string{"grass"},
		Height: decimal.New(7, -1),
		Weight: decimal.New(69, -1),
		Stats: []models.Stat{
			{Name: "hp", Value: 45},
			{Name: "special-attack", Value: 65},
			{Name: "special-defense", Value: 65},
		},
	})

	card, err := NewCardRenderer(testColors, false).RenderCard(p)

	require.NoError(t, err)
	assert.Equal(t, []models.StatLine{
		{Label: "HP", Value: 45},
		{Label: "SPECIAL ATTACK", Value: 65},
		{Label: "SPECIAL DEFENSE", Value: 65},
	}, card.Stats)
	assert.Equal(t, "0.70 m", card.Height)
	assert.Equal(t, "6.90 kg", card.Weight)
}

func TestRenderCard_HTML(t *testing.T) {
	p := resolvedPokemon(t, 1, "bulbasaur", models.PokemonDetail{
		ImageURL: "https://img/1.png",
		Types:    []string{"grass", "poison"},
		Stats:    []models.Stat{{Name: "special-attack", Value: 65}},
	})

	card, err := NewCardRenderer(testColors, false).RenderCard(p)

	require.NoError(t, err)
	html := string(card.HTML)
	assert.Contains(t, html, `id="pokemon-1"`)
	assert.Contains(t, html, `src="https://img/1.png"`)
	assert.Contains(t, html, "#78C850 0%")
	assert.Contains(t, html, "#A040A0 100%")
	assert.Contains(t, html, ">Grass</p>")
	assert.Contains(t, html, "SPECIAL ATTACK")
}

func TestRenderCard_ProxiedSprite(t *testing.T) {
	p := resolvedPokemon(t, 7, "squirtle", models.PokemonDetail{ImageURL: "https://img/7.png", Types: []string{"water"}})

	card, err := NewCardRenderer(testColors, true).RenderCard(p)

	require.NoError(t, err)
	assert.Equal(t, "/sprites/7", card.ImageURL)
}

func TestRenderCard_Unresolved(t *testing.T) {
	p := models.NewPokemon("bulbasaur", "url", 1)

	_, err := NewCardRenderer(testColors, false).RenderCard(p)

	assert.ErrorIs(t, err, ErrNotRenderable)
}
