package repository

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"pokedex-cards/logger"
	"pokedex-cards/models"
)

var (
	// ErrCatalogPopulated is returned when Populate is called a second time
	ErrCatalogPopulated = errors.New("catalog already populated")
	// ErrDuplicateIdentifier is returned when two pokemon share an ID
	ErrDuplicateIdentifier = errors.New("duplicate pokemon identifier")
	// ErrUnresolvedPokemon is returned when a pokemon without detail is added
	ErrUnresolvedPokemon = errors.New("pokemon detail not resolved")
	// ErrNotFound is returned by FindByID for unknown IDs
	ErrNotFound = errors.New("pokemon not found")
)

// CatalogRepository holds the catalog of one session. It is written once and only
// read afterwards, searches return filtered views and never mutate it.
type CatalogRepository struct {
	mu        sync.RWMutex
	populated bool
	pokemon   []*models.Pokemon
	byID      map[int]*models.Pokemon
}

// NewCatalogRepository creates an empty CatalogRepository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		byID: make(map[int]*models.Pokemon),
	}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// Populate stores the fully resolved catalog in list order
func (r *CatalogRepository) Populate(pokemon []*models.Pokemon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.populated {
		return ErrCatalogPopulated
	}

	byID := make(map[int]*models.Pokemon, len(pokemon))
	for _, p := range pokemon {
		if _, exists := byID[p.ID]; exists {
			return fmt.Errorf("%w: %d (%s)", ErrDuplicateIdentifier, p.ID, p.Name)
		}
		if !p.Renderable() {
			return fmt.Errorf("%w: %s is %s", ErrUnresolvedPokemon, p.Name, p.State())
		}
		byID[p.ID] = p
	}

	r.pokemon = append([]*models.Pokemon(nil), pokemon...)
	r.byID = byID
	r.populated = true
	logger.L().Debugf("✓ Catalog populated with %d pokemon", len(pokemon))
	return nil
}

// All returns every pokemon in catalog order
func (r *CatalogRepository) All() []*models.Pokemon {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*models.Pokemon(nil), r.pokemon...)
}

// FilterByName returns the pokemon whose name contains query (case-sensitive),
// in catalog order
func (r *CatalogRepository) FilterByName(query string) []*models.Pokemon {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*models.Pokemon
	for _, p := range r.pokemon {
		if strings.Contains(p.Name, query) {
			matches = append(matches, p)
		}
	}
	logger.L().Debugf("🔍 FilterByName: query=%q matches=%d", query, len(matches))
	return matches
}

// FindByID looks a pokemon up by its 1-based identifier
func (r *CatalogRepository) FindByID(id int) (*models.Pokemon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return p, nil
}

// Count returns the number of pokemon in the catalog
func (r *CatalogRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pokemon)
}
