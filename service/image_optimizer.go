package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"

	"pokedex-cards/logger"
	"pokedex-cards/repository"
)

const (
	spriteErrorContext = "Error fetching the pokemon sprite"
	// Size settings (max dimension)
	maxSizeThumb  = 192
	maxSizeMedium = 384
)

// ErrNoSprite is returned for pokemon without a sprite reference
var ErrNoSprite = errors.New("pokemon has no sprite")

// SpriteService serves upscaled pokemon sprites
type SpriteService struct {
	fetcher FetchServiceInterface
	repo    repository.CatalogRepositoryInterface
}

// NewSpriteService creates a new SpriteService
func NewSpriteService(fetcher FetchServiceInterface, repo repository.CatalogRepositoryInterface) *SpriteService {
	return &SpriteService{
		fetcher: fetcher,
		repo:    repo,
	}
}

// GetSprite fetches the sprite of a catalog pokemon and upscales it to size
func (s *SpriteService) GetSprite(ctx context.Context, id int, size string) ([]byte, error) {
	defer startTiming(ctx, "sprite", "Fetch and upscale sprite")()

	p, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	detail, ok := p.Detail()
	if !ok || detail.ImageURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoSprite, p.Name)
	}

	data, err := s.fetcher.FetchBytes(ctx, detail.ImageURL, spriteErrorContext)
	if err != nil {
		return nil, err
	}
	return OptimizeSprite(data, size)
}

// OptimizeSprite scales a sprite so its larger side matches the size bucket
// ("thumb" or "medium") and encodes it as PNG. Sprites are pixel art, so
// nearest-neighbour keeps the edges sharp. Larger images are scaled down.
func OptimizeSprite(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var maxDim int
	switch size {
	case "thumb":
		maxDim = maxSizeThumb
	case "medium", "":
		maxDim = maxSizeMedium
	default:
		maxDim = maxSizeMedium
		logger.L().Warnf("⚠️  Unknown sprite size '%s', defaulting to medium", size)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("failed to optimize image: empty %s image", format)
	}

	resized := img
	if max(width, height) != maxDim {
		if width >= height {
			resized = imaging.Resize(img, maxDim, 0, imaging.NearestNeighbor)
		} else {
			resized = imaging.Resize(img, 0, maxDim, imaging.NearestNeighbor)
		}
		logger.L().Debugf("🔄 Resizing sprite: %dx%d -> %dx%d", width, height, resized.Bounds().Dx(), resized.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}
	return buf.Bytes(), nil
}
