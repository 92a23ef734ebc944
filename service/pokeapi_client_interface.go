package service

import (
	"context"

	"pokedex-cards/models"
)

// PokemonClientInterface defines the contract for the two PokeAPI calls the catalog needs
type PokemonClientInterface interface {
	models.DetailFetcher
	ListPokemon(ctx context.Context, limit int) ([]models.PokemonListEntry, error)
	DetailLocation(entry models.PokemonListEntry) string
}
