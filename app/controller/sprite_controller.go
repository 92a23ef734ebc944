package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pokedex-cards/logger"
	"pokedex-cards/repository"
	"pokedex-cards/service"
)

// SpriteController serves upscaled sprites for catalog cards
type SpriteController struct {
	spriteService *service.SpriteService
}

// NewSpriteController creates a new SpriteController
func NewSpriteController(spriteService *service.SpriteService) *SpriteController {
	return &SpriteController{spriteService: spriteService}
}

// GetSprite handles GET /sprites/:id?size=thumb|medium
func (c *SpriteController) GetSprite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sprites/"), "/")
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		logger.L().Warnf("❌ GetSprite: Invalid pokemon id: %s", idStr)
		http.Error(w, "Invalid pokemon id", http.StatusBadRequest)
		return
	}

	size := strings.TrimSpace(r.URL.Query().Get("size"))
	if size != "" && size != "thumb" && size != "medium" {
		http.Error(w, "Invalid size. Valid sizes: thumb, medium", http.StatusBadRequest)
		return
	}

	data, err := c.spriteService.GetSprite(r.Context(), id, size)
	if err != nil {
		var netErr *service.NetworkError
		switch {
		case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrNoSprite):
			logger.L().Warnf("⚠️  GetSprite: %v", err)
			http.Error(w, "Sprite not found", http.StatusNotFound)
		case errors.As(err, &netErr):
			logger.L().Errorf("❌ GetSprite: %v", err)
			http.Error(w, fmt.Sprintf("Failed to fetch sprite: %v", err), http.StatusBadGateway)
		default:
			logger.L().Errorf("❌ GetSprite: %v", err)
			http.Error(w, fmt.Sprintf("Failed to optimize sprite: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.L().Errorf("❌ GetSprite: Error writing PNG response: %v", err)
	}
}
