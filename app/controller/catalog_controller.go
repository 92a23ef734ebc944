package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"pokedex-cards/logger"
	"pokedex-cards/models"
	"pokedex-cards/service"
)

// pngSessionTTL is how long exported PNG pages stay downloadable
const pngSessionTTL = 10 * time.Minute

// CatalogController handles HTTP requests for the catalog page, search and exports
type CatalogController struct {
	catalogService *service.CatalogService
	// Temporary storage for PNG pages (key: sessionID, value: map of page number to PNG data)
	pngStorage      map[string]map[int][]byte
	pngStorageMutex sync.RWMutex
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		pngStorage:     make(map[string]map[int][]byte),
	}
}

// validFormats is a map of valid export format values
var validFormats = map[string]bool{
	"html": true,
	"pdf":  true,
	"png":  true,
}

// CatalogResponse is the JSON view of the display surface
type CatalogResponse struct {
	State        service.CatalogState  `json:"state"`
	FilterActive bool                  `json:"filterActive"`
	Notice       *models.Notice        `json:"notice,omitempty"`
	Cards        []models.CardFragment `json:"cards"`
	Error        string                `json:"error,omitempty"`
}

// SearchResponse is returned to JSON clients of /search
type SearchResponse struct {
	Query   string `json:"query"`
	Matches int    `json:"matches"`
}

// RenderCatalog handles GET / and GET /catalog/render?printable=true
func (c *CatalogController) RenderCatalog(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/catalog/render" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		logger.L().Warnf("❌ RenderCatalog: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	printable := r.URL.Query().Get("printable") == "true"
	htmlContent, err := c.catalogService.RenderCatalogHTML(r.Context(), printable)
	if err != nil {
		logger.L().Errorf("❌ RenderCatalog: Error rendering HTML: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
		return
	}

	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64String(htmlContent))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(htmlContent)); err != nil {
		logger.L().Errorf("❌ RenderCatalog: Error writing HTML response: %v", err)
	}
}

// GetCatalog handles GET /api/catalog
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := c.catalogService.Snapshot()
	response := CatalogResponse{
		State:        c.catalogService.State(),
		FilterActive: snap.FilterActive,
		Notice:       snap.Notice,
		Cards:        snap.Cards,
	}
	if err := c.catalogService.LoadError(); err != nil {
		response.Error = err.Error()
	}
	if response.Cards == nil {
		response.Cards = []models.CardFragment{}
	}

	writeJSON(w, http.StatusOK, response)
}

// Search handles GET|POST /search?q=name
// The query is never echoed back, the page always comes back with an empty search box.
func (c *CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.FormValue("q"))
	if query == "" {
		logger.L().Warnf("❌ Search: q parameter is required")
		http.Error(w, "q parameter is required", http.StatusBadRequest)
		return
	}

	matches, err := c.catalogService.Search(r.Context(), query)
	if err != nil {
		c.writeServiceError(w, "Search", err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, SearchResponse{Query: query, Matches: matches})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ClearSearch handles POST /search/clear
func (c *CatalogController) ClearSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := c.catalogService.ClearSearchAndRenderAll(r.Context()); err != nil {
		c.writeServiceError(w, "ClearSearch", err)
		return
	}

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DismissNotice handles POST /notice/dismiss
func (c *CatalogController) DismissNotice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.catalogService.DismissNotice()
	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ExportCatalog handles GET /catalog/export?format=html|pdf|png
func (c *CatalogController) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		logger.L().Warnf("❌ ExportCatalog: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		logger.L().Warnf("❌ ExportCatalog: format parameter is required")
		http.Error(w, "format parameter is required. Valid formats: html, pdf, png", http.StatusBadRequest)
		return
	}
	if !validFormats[format] {
		logger.L().Warnf("❌ ExportCatalog: Invalid format: %s", format)
		http.Error(w, "Invalid format. Valid formats: html, pdf, png", http.StatusBadRequest)
		return
	}

	switch format {
	case "html":
		htmlContent, err := c.catalogService.RenderCatalogHTML(ctx, true)
		if err != nil {
			logger.L().Errorf("❌ ExportCatalog: Error rendering HTML: %v", err)
			http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="pokedex.html"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(htmlContent)); err != nil {
			logger.L().Errorf("❌ ExportCatalog: Error writing HTML response: %v", err)
		}

	case "pdf":
		pdfData, err := c.catalogService.GeneratePDF(ctx)
		if err != nil {
			c.writeServiceError(w, "ExportCatalog", err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="pokedex.pdf"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdfData); err != nil {
			logger.L().Errorf("❌ ExportCatalog: Error writing PDF response: %v", err)
		}

	case "png":
		pngs, err := c.catalogService.GeneratePNG(ctx)
		if err != nil {
			c.writeServiceError(w, "ExportCatalog", err)
			return
		}
		sessionID := c.storePNGs(pngs)

		type PageLink struct {
			Page     int    `json:"page"`
			URL      string `json:"url"`
			Filename string `json:"filename"`
		}
		pages := make([]PageLink, 0, len(pngs))
		for i := 1; i <= len(pngs); i++ {
			if _, exists := pngs[i]; !exists {
				continue
			}
			filename := fmt.Sprintf("pokedex_page_%d.png", i)
			if len(pngs) == 1 {
				filename = "pokedex.png"
			}
			pages = append(pages, PageLink{
				Page:     i,
				URL:      fmt.Sprintf("/catalog/png-page?session=%s&page=%d", sessionID, i),
				Filename: filename,
			})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"sessionId":  sessionID,
			"totalPages": len(pngs),
			"pages":      pages,
		})
	}
}

// storePNGs keeps exported pages for pngSessionTTL and returns the session ID
func (c *CatalogController) storePNGs(pngs map[int][]byte) string {
	sessionID := uuid.NewString()

	c.pngStorageMutex.Lock()
	c.pngStorage[sessionID] = pngs
	c.pngStorageMutex.Unlock()

	time.AfterFunc(pngSessionTTL, func() {
		c.pngStorageMutex.Lock()
		delete(c.pngStorage, sessionID)
		c.pngStorageMutex.Unlock()
	})
	return sessionID
}

// pngSignature is the 8-byte header every PNG file starts with
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// DownloadPNGPage handles GET /catalog/png-page?session=XXX&page=N
func (c *CatalogController) DownloadPNGPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	pageStr := strings.TrimSpace(r.URL.Query().Get("page"))
	if sessionID == "" {
		logger.L().Warnf("❌ DownloadPNGPage: session parameter is required")
		http.Error(w, "session parameter is required", http.StatusBadRequest)
		return
	}

	pageNum, err := strconv.Atoi(pageStr)
	if err != nil || pageNum < 1 {
		logger.L().Warnf("❌ DownloadPNGPage: Invalid page number: %s", pageStr)
		http.Error(w, "Invalid page number", http.StatusBadRequest)
		return
	}

	c.pngStorageMutex.RLock()
	pngs, exists := c.pngStorage[sessionID]
	c.pngStorageMutex.RUnlock()
	if !exists {
		logger.L().Warnf("❌ DownloadPNGPage: Session not found: %s", sessionID)
		http.Error(w, "Session expired or not found", http.StatusNotFound)
		return
	}

	pngData, exists := pngs[pageNum]
	if !exists {
		logger.L().Warnf("❌ DownloadPNGPage: Page %d not found in session %s", pageNum, sessionID)
		http.Error(w, fmt.Sprintf("Page %d not found", pageNum), http.StatusNotFound)
		return
	}

	if len(pngData) < len(pngSignature) || string(pngData[:len(pngSignature)]) != string(pngSignature) {
		logger.L().Errorf("❌ DownloadPNGPage: Invalid PNG data for page %d", pageNum)
		http.Error(w, "Invalid PNG data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"pokedex_page_%d.png\"", pageNum))
	w.Header().Set("Content-Length", strconv.Itoa(len(pngData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pngData); err != nil {
		logger.L().Errorf("❌ DownloadPNGPage: Error writing PNG response: %v", err)
	}
}

func (c *CatalogController) writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrCatalogNotReady) {
		logger.L().Warnf("⚠️  %s: %v", op, err)
		http.Error(w, "Catalog is not loaded", http.StatusConflict)
		return
	}
	logger.L().Errorf("❌ %s: %v", op, err)
	http.Error(w, fmt.Sprintf("%s failed: %v", op, err), http.StatusInternalServerError)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Errorf("❌ Error encoding JSON response: %v", err)
	}
}
