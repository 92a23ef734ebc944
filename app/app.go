package app

import (
	"net/http"

	"pokedex-cards/app/controller"
	"pokedex-cards/app/router"
	"pokedex-cards/config"
	"pokedex-cards/repository"
	"pokedex-cards/service"
)

// Application holds the wired services of one session
type Application struct {
	Catalog *service.CatalogService
	Handler http.Handler
	display *service.DisplaySurface
}

// Initialize wires the application from cfg. The catalog starts Empty, call
// Catalog.Load to fetch it.
func Initialize(cfg *config.Config, httpClient *http.Client) *Application {
	fetcher := service.NewFetchService(httpClient)
	client := service.NewPokeAPIClient(fetcher, cfg.ListURL, cfg.DetailURLTemplate)

	// Initialize repository and display
	catalogRepo := repository.NewCatalogRepository()
	display := service.NewDisplaySurface()
	renderer := service.NewCardRenderer(cfg.TypeColors, cfg.SpriteProxy)

	catalogService := service.NewCatalogService(client, catalogRepo, display, renderer, service.CatalogOptions{
		Limit:      cfg.Limit,
		BaseURL:    cfg.BaseURL,
		ChromePath: cfg.ChromePath,
	})
	spriteService := service.NewSpriteService(fetcher, catalogRepo)

	// Create controllers
	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(catalogService),
		Sprite:  controller.NewSpriteController(spriteService),
	}

	return &Application{
		Catalog: catalogService,
		Handler: router.SetupRoutes(http.NewServeMux(), controllers),
		display: display,
	}
}

// Close stops the display render loop
func (a *Application) Close() {
	a.display.Close()
}
