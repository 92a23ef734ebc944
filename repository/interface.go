package repository

import "pokedex-cards/models"

// CatalogRepositoryInterface defines the contract for the in-memory catalog
type CatalogRepositoryInterface interface {
	Populate(pokemon []*models.Pokemon) error
	All() []*models.Pokemon
	FilterByName(query string) []*models.Pokemon
	FindByID(id int) (*models.Pokemon, error)
	Count() int
}
