package models

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrInvalidDetail is returned when a detail payload cannot be rendered
var ErrInvalidDetail = errors.New("invalid pokemon detail")

// ResolutionState tracks the detail fetch of a single Pokemon
type ResolutionState int

const (
	Unresolved ResolutionState = iota
	Pending
	Resolved
	Failed
)

func (s ResolutionState) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("ResolutionState(%d)", int(s))
	}
}

// Stat is one base stat, kept in API order
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PokemonDetail is the secondary data fetched from the per-pokemon endpoint
type PokemonDetail struct {
	ImageURL string
	Height   decimal.Decimal // metres
	Weight   decimal.Decimal // kilograms
	Types    []string
	Stats    []Stat
	Moves    []string
}

// Validate checks the invariants a card needs
func (d *PokemonDetail) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: empty payload", ErrInvalidDetail)
	}
	if len(d.Types) == 0 {
		return fmt.Errorf("%w: at least one type is required", ErrInvalidDetail)
	}
	return nil
}

// DetailFetcher fetches the detail payload behind a detail URL
type DetailFetcher interface {
	FetchDetail(ctx context.Context, location string) (*PokemonDetail, error)
}

// Pokemon represents one catalog entry. ID, Name and DetailURL never change after
// construction, the detail is filled in by ResolveDetail.
type Pokemon struct {
	ID        int
	Name      string
	DetailURL string

	mu     sync.Mutex
	state  ResolutionState
	detail *PokemonDetail
	err    error
	done   chan struct{}
}

// NewPokemon creates an unresolved Pokemon
func NewPokemon(name, detailURL string, id int) *Pokemon {
	return &Pokemon{
		ID:        id,
		Name:      name,
		DetailURL: detailURL,
	}
}

// ResolveDetail fetches and assigns the detail payload.
// A Resolved pokemon returns nil without fetching, a Pending one waits for the
// fetch already in flight and returns its outcome. Unresolved and Failed pokemon
// start a new fetch. The detail is only assigned when the whole fetch succeeds.
func (p *Pokemon) ResolveDetail(ctx context.Context, fetcher DetailFetcher) error {
	p.mu.Lock()
	switch p.state {
	case Resolved:
		p.mu.Unlock()
		return nil
	case Pending:
		done := p.done
		p.mu.Unlock()
		select {
		case <-done:
			p.mu.Lock()
			defer p.mu.Unlock()
			return p.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.state = Pending
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	detail, err := fetcher.FetchDetail(ctx, p.DetailURL)
	if err == nil {
		err = detail.Validate()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = Failed
		p.err = err
	} else {
		p.state = Resolved
		p.detail = detail
		p.err = nil
	}
	close(done)
	return err
}

// State returns the current resolution state
func (p *Pokemon) State() ResolutionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Detail returns the resolved detail and whether it is available
func (p *Pokemon) Detail() (*PokemonDetail, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Resolved {
		return nil, false
	}
	return p.detail, true
}

// Renderable reports whether the pokemon can be shown as a card
func (p *Pokemon) Renderable() bool {
	return p.State() == Resolved
}

// Err returns the error of the last failed resolution
func (p *Pokemon) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
