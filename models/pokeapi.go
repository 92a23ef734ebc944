package models

import "github.com/shopspring/decimal"

// PokemonListResponse is the body of GET /api/v2/pokemon?limit=N
type PokemonListResponse struct {
	Count   int                `json:"count"`
	Results []PokemonListEntry `json:"results"`
}

// PokemonListEntry is one named resource of the list endpoint
type PokemonListEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonDetailResponse holds the fields of GET /api/v2/pokemon/{name} this app reads
type PokemonDetailResponse struct {
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
	Height int `json:"height"` // decimetres
	Weight int `json:"weight"` // hectograms
	Types  []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
	} `json:"moves"`
}

// ToDetail converts the API payload into a PokemonDetail.
// Height becomes metres and weight kilograms, both rounded to 2 decimals.
func (r *PokemonDetailResponse) ToDetail() *PokemonDetail {
	detail := &PokemonDetail{
		ImageURL: r.Sprites.FrontDefault,
		Height:   decimal.New(int64(r.Height), -1).Round(2),
		Weight:   decimal.New(int64(r.Weight), -1).Round(2),
		Types:    make([]string, 0, len(r.Types)),
		Stats:    make([]Stat, 0, len(r.Stats)),
		Moves:    make([]string, 0, len(r.Moves)),
	}
	for _, t := range r.Types {
		detail.Types = append(detail.Types, t.Type.Name)
	}
	for _, s := range r.Stats {
		detail.Stats = append(detail.Stats, Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}
	for _, m := range r.Moves {
		detail.Moves = append(detail.Moves, m.Move.Name)
	}
	return detail
}
