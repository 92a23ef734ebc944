// Package testutil provides an in-process PokeAPI double for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeStat is one base stat of a FakePokemon
type FakeStat struct {
	Name  string
	Value int
}

// FakePokemon is the data the fake API serves for one pokemon
type FakePokemon struct {
	Name   string
	Types  []string
	Height int // decimetres
	Weight int // hectograms
	Stats  []FakeStat
	Moves  []string
}

// Starters returns charmander, bulbasaur and squirtle, in that order
func Starters() []FakePokemon {
	stats := func(hp, atk int) []FakeStat {
		return []FakeStat{
			{Name: "hp", Value: hp},
			{Name: "attack", Value: atk},
			{Name: "special-attack", Value: 60},
		}
	}
	return []FakePokemon{
		{
			Name: "charmander", Types: []string{"fire"}, Height: 6, Weight: 85,
			Stats: stats(39, 52),
			Moves: []string{"mega-punch", "fire-punch", "thunder-punch", "scratch", "swords-dance", "cut", "wing-attack", "fly"},
		},
		{
			Name: "bulbasaur", Types: []string{"grass", "poison"}, Height: 7, Weight: 69,
			Stats: stats(45, 49),
			Moves: []string{"razor-wind", "swords-dance", "cut"},
		},
		{
			Name: "squirtle", Types: []string{"water"}, Height: 5, Weight: 90,
			Stats: stats(44, 48),
			Moves: []string{"mega-punch", "ice-punch", "mega-kick", "headbutt", "tackle", "body-slam"},
		},
	}
}

// FakePokeAPI serves /api/v2/pokemon/, /api/v2/pokemon/{name}/ and /sprites/{name}.png
type FakePokeAPI struct {
	Server *httptest.Server

	mu           sync.Mutex
	pokemon      []FakePokemon
	listStatus   int
	detailStatus map[string]int
	listHits     int
	detailHits   map[string]int
}

// NewFakePokeAPI starts the fake API, it is closed when the test ends
func NewFakePokeAPI(t testing.TB, pokemon ...FakePokemon) *FakePokeAPI {
	t.Helper()
	f := &FakePokeAPI{
		pokemon:      pokemon,
		detailStatus: make(map[string]int),
		detailHits:   make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// ListURL is the list endpoint of the fake API
func (f *FakePokeAPI) ListURL() string {
	return f.Server.URL + "/api/v2/pokemon/"
}

// DetailURLTemplate is the per-pokemon endpoint template of the fake API
func (f *FakePokeAPI) DetailURLTemplate() string {
	return f.Server.URL + "/api/v2/pokemon/%s/"
}

// SetListStatus makes the list endpoint answer with status
func (f *FakePokeAPI) SetListStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatus = status
}

// SetDetailStatus makes the detail endpoint of name answer with status
func (f *FakePokeAPI) SetDetailStatus(name string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailStatus[name] = status
}

// ListHits returns how many times the list endpoint was called
func (f *FakePokeAPI) ListHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listHits
}

// DetailHits returns how many times the detail endpoint of name was called
func (f *FakePokeAPI) DetailHits(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailHits[name]
}

func (f *FakePokeAPI) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v2/pokemon/" || r.URL.Path == "/api/v2/pokemon":
		f.serveList(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v2/pokemon/"):
		f.serveDetail(w, strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v2/pokemon/"), "/"))
	case strings.HasPrefix(r.URL.Path, "/sprites/"):
		serveSprite(w)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakePokeAPI) serveList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.listHits++
	status := f.listStatus
	pokemon := f.pokemon
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}

	limit := len(pokemon)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n < limit {
			limit = n
		}
	}

	type entry struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	results := make([]entry, 0, limit)
	for _, p := range pokemon[:limit] {
		results = append(results, entry{Name: p.Name, URL: f.Server.URL + "/api/v2/pokemon/" + p.Name + "/"})
	}
	writeJSON(w, map[string]interface{}{"count": len(pokemon), "results": results})
}

func (f *FakePokeAPI) serveDetail(w http.ResponseWriter, name string) {
	f.mu.Lock()
	f.detailHits[name]++
	status := f.detailStatus[name]
	var found *FakePokemon
	for i := range f.pokemon {
		if f.pokemon[i].Name == name {
			found = &f.pokemon[i]
			break
		}
	}
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if found == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	types := make([]map[string]interface{}, 0, len(found.Types))
	for i, t := range found.Types {
		types = append(types, map[string]interface{}{"slot": i + 1, "type": map[string]string{"name": t}})
	}
	stats := make([]map[string]interface{}, 0, len(found.Stats))
	for _, s := range found.Stats {
		stats = append(stats, map[string]interface{}{"base_stat": s.Value, "stat": map[string]string{"name": s.Name}})
	}
	moves := make([]map[string]interface{}, 0, len(found.Moves))
	for _, m := range found.Moves {
		moves = append(moves, map[string]interface{}{"move": map[string]string{"name": m}})
	}

	writeJSON(w, map[string]interface{}{
		"name":    found.Name,
		"height":  found.Height,
		"weight":  found.Weight,
		"sprites": map[string]string{"front_default": f.Server.URL + "/sprites/" + found.Name + ".png"},
		"types":   types,
		"stats":   stats,
		"moves":   moves,
	})
}

// SpritePNG is a 4x2 PNG used as every sprite
func SpritePNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(60 * x), G: 120, B: uint8(100 * y), A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func serveSprite(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/png")
	w.Write(SpritePNG())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
