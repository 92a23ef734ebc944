package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bulbasaurJSON = `{
  "name": "bulbasaur",
  "height": 7,
  "weight": 69,
  "sprites": {"front_default": "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png"},
  "types": [
    {"slot": 1, "type": {"name": "grass", "url": "https://pokeapi.co/api/v2/type/12/"}},
    {"slot": 2, "type": {"name": "poison", "url": "https://pokeapi.co/api/v2/type/4/"}}
  ],
  "stats": [
    {"base_stat": 45, "effort": 0, "stat": {"name": "hp"}},
    {"base_stat": 65, "effort": 1, "stat": {"name": "special-attack"}},
    {"base_stat": 45, "effort": 0, "stat": {"name": "speed"}}
  ],
  "moves": [
    {"move": {"name": "razor-wind"}},
    {"move": {"name": "swords-dance"}}
  ]
}`

func TestPokemonDetailResponse_ToDetail(t *testing.T) {
	var resp PokemonDetailResponse
	require.NoError(t, json.Unmarshal([]byte(bulbasaurJSON), &resp))

	detail := resp.ToDetail()

	assert.Equal(t, "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png", detail.ImageURL)
	assert.Equal(t, "0.70", detail.Height.StringFixed(2))
	assert.Equal(t, "6.90", detail.Weight.StringFixed(2))
	assert.Equal(t, []string{"grass", "poison"}, detail.Types)
	assert.Equal(t, []Stat{
		{Name: "hp", Value: 45},
		{Name: "special-attack", Value: 65},
		{Name: "speed", Value: 45},
	}, detail.Stats)
	assert.Equal(t, []string{"razor-wind", "swords-dance"}, detail.Moves)
	assert.NoError(t, detail.Validate())
}

func TestPokemonDetailResponse_HeavyPokemon(t *testing.T) {
	resp := PokemonDetailResponse{Height: 88, Weight: 9999}

	detail := resp.ToDetail()

	assert.Equal(t, "8.80", detail.Height.StringFixed(2))
	assert.Equal(t, "999.90", detail.Weight.StringFixed(2))
	assert.ErrorIs(t, detail.Validate(), ErrInvalidDetail)
}

func TestTypeColorTable_ColorFor(t *testing.T) {
	table := TypeColorTable{
		Fallback: "#000000",
		Types:    map[string]string{"fire": "#F08030"},
	}

	assert.Equal(t, "#F08030", table.ColorFor("fire"))
	assert.Equal(t, "#F08030", table.ColorFor("Fire"))
	assert.Equal(t, "#000000", table.ColorFor("shadow"))
}

func TestDisplaySnapshot_Names(t *testing.T) {
	snap := DisplaySnapshot{Cards: []CardFragment{{Name: "a"}, {Name: "b"}}}
	assert.Equal(t, []string{"a", "b"}, snap.Names())
	assert.Empty(t, DisplaySnapshot{}.Names())
}
