package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex-cards/repository"
	"pokedex-cards/testutil"
)

func TestOptimizeSprite(t *testing.T) {
	tests := []struct {
		size       string
		wantWidth  int
		wantHeight int
	}{
		{size: "thumb", wantWidth: 192, wantHeight: 96},
		{size: "medium", wantWidth: 384, wantHeight: 192},
		{size: "", wantWidth: 384, wantHeight: 192},
		{size: "huge", wantWidth: 384, wantHeight: 192},
	}
	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			data, err := OptimizeSprite(testutil.SpritePNG(), tt.size)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, img.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, img.Bounds().Dy())
		})
	}
}

func TestOptimizeSprite_InvalidImage(t *testing.T) {
	_, err := OptimizeSprite([]byte("not an image"), "thumb")
	assert.ErrorContains(t, err, "failed to decode image")
}

func TestSpriteService_GetSprite(t *testing.T) {
	f := newCatalogFixture(t, 3, testutil.Starters()...)
	require.NoError(t, f.service.Load(context.Background()))
	sprites := NewSpriteService(NewFetchService(nil), f.repo)

	data, err := sprites.GetSprite(context.Background(), 2, "thumb")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 192, img.Bounds().Dx())

	_, err = sprites.GetSprite(context.Background(), 99, "thumb")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSpriteService_UpstreamFailure(t *testing.T) {
	f := newCatalogFixture(t, 3, testutil.Starters()...)
	require.NoError(t, f.service.Load(context.Background()))
	f.api.Server.Close()
	sprites := NewSpriteService(NewFetchService(nil), f.repo)

	_, err := sprites.GetSprite(context.Background(), 1, "medium")

	require.Error(t, err)
	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
	assert.Contains(t, err.Error(), spriteErrorContext)
}
