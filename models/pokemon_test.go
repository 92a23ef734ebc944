package models

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = time.Second
	tick    = time.Millisecond
)

type stubFetcher struct {
	calls   atomic.Int32
	release chan struct{}
	detail  *PokemonDetail
	err     error
}

func (f *stubFetcher) FetchDetail(ctx context.Context, location string) (*PokemonDetail, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.detail, f.err
}

func validDetail() *PokemonDetail {
	return &PokemonDetail{
		ImageURL: "https://img/1.png",
		Height:   decimal.RequireFromString("0.7"),
		Weight:   decimal.RequireFromString("6.9"),
		Types:    []string{"grass", "poison"},
		Stats:    []Stat{{Name: "hp", Value: 45}},
		Moves:    []string{"cut"},
	}
}

func TestNewPokemon(t *testing.T) {
	p := NewPokemon("bulbasaur", "https://pokeapi.co/api/v2/pokemon/1/", 1)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "bulbasaur", p.Name)
	assert.Equal(t, Unresolved, p.State())
	assert.False(t, p.Renderable())
	_, ok := p.Detail()
	assert.False(t, ok)
}

func TestResolveDetail_Success(t *testing.T) {
	fetcher := &stubFetcher{detail: validDetail()}
	p := NewPokemon("bulbasaur", "url", 1)

	require.NoError(t, p.ResolveDetail(context.Background(), fetcher))

	assert.Equal(t, Resolved, p.State())
	assert.True(t, p.Renderable())
	detail, ok := p.Detail()
	require.True(t, ok)
	assert.Equal(t, []string{"grass", "poison"}, detail.Types)
}

func TestResolveDetail_ResolvedIsNoop(t *testing.T) {
	fetcher := &stubFetcher{detail: validDetail()}
	p := NewPokemon("bulbasaur", "url", 1)

	require.NoError(t, p.ResolveDetail(context.Background(), fetcher))
	require.NoError(t, p.ResolveDetail(context.Background(), fetcher))

	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestResolveDetail_PendingSharesFetch(t *testing.T) {
	fetcher := &stubFetcher{detail: validDetail(), release: make(chan struct{})}
	p := NewPokemon("bulbasaur", "url", 1)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = p.ResolveDetail(context.Background(), fetcher)
	}()

	// Wait until the first call is in flight
	require.Eventually(t, func() bool { return p.State() == Pending }, timeout, tick)

	for i := 1; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = p.ResolveDetail(context.Background(), fetcher)
		}(i)
	}
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, Resolved, p.State())
}

func TestResolveDetail_FailureLeavesNoDetail(t *testing.T) {
	boom := errors.New("boom")
	fetcher := &stubFetcher{detail: validDetail(), err: boom}
	p := NewPokemon("bulbasaur", "url", 1)

	err := p.ResolveDetail(context.Background(), fetcher)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Failed, p.State())
	assert.ErrorIs(t, p.Err(), boom)
	_, ok := p.Detail()
	assert.False(t, ok)
}

func TestResolveDetail_FailedRetries(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	p := NewPokemon("bulbasaur", "url", 1)
	require.Error(t, p.ResolveDetail(context.Background(), fetcher))

	fetcher.err = nil
	fetcher.detail = validDetail()
	require.NoError(t, p.ResolveDetail(context.Background(), fetcher))

	assert.Equal(t, int32(2), fetcher.calls.Load())
	assert.Equal(t, Resolved, p.State())
	assert.NoError(t, p.Err())
}

func TestResolveDetail_RejectsDetailWithoutTypes(t *testing.T) {
	detail := validDetail()
	detail.Types = nil
	p := NewPokemon("missingno", "url", 1)

	err := p.ResolveDetail(context.Background(), &stubFetcher{detail: detail})

	assert.ErrorIs(t, err, ErrInvalidDetail)
	assert.Equal(t, Failed, p.State())
}

func TestResolutionStateString(t *testing.T) {
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "failed", Failed.String())
}
