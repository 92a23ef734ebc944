package router

import (
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"

	"pokedex-cards/app/controller"
)

type Controllers struct {
	Catalog *controller.CatalogController
	Sprite  *controller.SpriteController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on mux and returns the handler to serve,
// wrapped with the Server-Timing middleware
func SetupRoutes(mux *http.ServeMux, controllers *Controllers) http.Handler {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Catalog page (also the printable render used by exports)
	mux.HandleFunc("/", controllers.Catalog.RenderCatalog)
	mux.HandleFunc("/catalog/render", controllers.Catalog.RenderCatalog)
	mux.HandleFunc("/api/catalog", controllers.Catalog.GetCatalog)

	// Search
	mux.HandleFunc("/search", controllers.Catalog.Search)
	mux.HandleFunc("/search/clear", controllers.Catalog.ClearSearch)
	mux.HandleFunc("/notice/dismiss", controllers.Catalog.DismissNotice)

	// Exports
	mux.HandleFunc("/catalog/export", controllers.Catalog.ExportCatalog)
	mux.HandleFunc("/catalog/png-page", controllers.Catalog.DownloadPNGPage)

	// Sprites
	mux.HandleFunc("/sprites/", controllers.Sprite.GetSprite)

	return servertiming.Middleware(mux, nil)
}
