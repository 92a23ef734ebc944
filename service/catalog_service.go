package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"pokedex-cards/logger"
	"pokedex-cards/models"
	"pokedex-cards/repository"
	"pokedex-cards/templates"
)

// cardsPerPage is the number of cards on one printable page
const cardsPerPage = 9

var (
	// ErrAlreadyLoaded is returned when Load is called more than once
	ErrAlreadyLoaded = errors.New("catalog load already started")
	// ErrCatalogNotReady is returned by search operations before a successful load
	ErrCatalogNotReady = errors.New("catalog is not loaded")
)

// CatalogState is the lifecycle of the catalog within one session
type CatalogState string

const (
	StateEmpty          CatalogState = "empty"
	StateLoadingList    CatalogState = "loading-list"
	StateLoadingDetails CatalogState = "loading-details"
	StateRendered       CatalogState = "rendered"
	StateFiltered       CatalogState = "filtered"
	StateFailed         CatalogState = "failed"
)

// CatalogOptions configures a CatalogService
type CatalogOptions struct {
	Limit      int    // number of pokemon to load
	BaseURL    string // base URL chromedp navigates to for exports (e.g., "http://localhost:8080")
	ChromePath string // optional Chrome/Chromium executable
}

// CatalogService loads the catalog, renders it and handles searches
type CatalogService struct {
	client   PokemonClientInterface
	repo     repository.CatalogRepositoryInterface
	display  DisplayInterface
	renderer *CardRenderer
	opts     CatalogOptions

	mu      sync.Mutex
	state   CatalogState
	loadErr error
}

// NewCatalogService creates a new CatalogService in the Empty state
func NewCatalogService(
	client PokemonClientInterface,
	repo repository.CatalogRepositoryInterface,
	display DisplayInterface,
	renderer *CardRenderer,
	opts CatalogOptions,
) *CatalogService {
	return &CatalogService{
		client:   client,
		repo:     repo,
		display:  display,
		renderer: renderer,
		opts:     opts,
		state:    StateEmpty,
	}
}

// Load fetches the list, resolves every detail in parallel and renders the whole
// catalog once. Any failure leaves the catalog Failed with nothing rendered.
func (s *CatalogService) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateEmpty {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.state = StateLoadingList
	s.mu.Unlock()

	started := time.Now()
	logger.L().Infof("🔄 Loading catalog: limit=%d", s.opts.Limit)

	entries, err := s.client.ListPokemon(ctx, s.opts.Limit)
	if err != nil {
		return s.fail(err)
	}

	pokemon := make([]*models.Pokemon, 0, len(entries))
	for i, entry := range entries {
		pokemon = append(pokemon, models.NewPokemon(entry.Name, s.client.DetailLocation(entry), i+1))
	}
	s.setState(StateLoadingDetails)

	// Fetches already issued run to completion even when a sibling fails
	var g errgroup.Group
	for _, p := range pokemon {
		p := p
		g.Go(func() error {
			return p.ResolveDetail(ctx, s.client)
		})
	}
	if err := g.Wait(); err != nil {
		return s.fail(err)
	}

	if err := s.repo.Populate(pokemon); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cards, err := s.renderCards(pokemon)
	if err != nil {
		s.state = StateFailed
		s.loadErr = err
		s.display.ShowNotice(models.NoticeError, err.Error())
		return err
	}
	s.display.Clear()
	for _, card := range cards {
		s.display.Append(card)
	}
	s.state = StateRendered

	logger.L().Infof("✓ Catalog loaded: %d pokemon in %s", len(pokemon), time.Since(started).Round(time.Millisecond))
	return nil
}

func (s *CatalogService) fail(err error) error {
	logger.L().Errorf("❌ Catalog load failed: %v", err)

	s.mu.Lock()
	s.state = StateFailed
	s.loadErr = err
	s.mu.Unlock()

	s.display.ShowNotice(models.NoticeError, err.Error())
	return err
}

func (s *CatalogService) setState(state CatalogState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Search shows the pokemon whose name contains query (case-sensitive), in catalog
// order. Without matches a notice is shown and the cards on display are kept.
// Returns the number of matches.
func (s *CatalogService) Search(ctx context.Context, query string) (int, error) {
	defer startTiming(ctx, "search", "Filter catalog by name")()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRendered && s.state != StateFiltered {
		return 0, ErrCatalogNotReady
	}

	matches := s.repo.FilterByName(query)
	if len(matches) == 0 {
		logger.L().Infof("⚠️  Search: no pokemon found for query=%q", query)
		s.display.ShowNotice(models.NoticeInfo, fmt.Sprintf("No pokemon found matching %q", query))
		return 0, nil
	}

	cards, err := s.renderCards(matches)
	if err != nil {
		return 0, err
	}
	s.display.Clear()
	for _, card := range cards {
		s.display.Append(card)
	}
	s.display.SetFilterActive(true)
	s.state = StateFiltered

	logger.L().Infof("🔍 Search: query=%q matches=%d", query, len(matches))
	return len(matches), nil
}

// ClearSearchAndRenderAll shows the whole catalog again and hides the clear-filter button
func (s *CatalogService) ClearSearchAndRenderAll(ctx context.Context) error {
	defer startTiming(ctx, "clear", "Render full catalog")()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRendered && s.state != StateFiltered {
		return ErrCatalogNotReady
	}

	cards, err := s.renderCards(s.repo.All())
	if err != nil {
		return err
	}
	s.display.Clear()
	for _, card := range cards {
		s.display.Append(card)
	}
	s.display.SetFilterActive(false)
	s.state = StateRendered
	return nil
}

// RenderPokemonCard appends the card of one pokemon to the display
func (s *CatalogService) RenderPokemonCard(p *models.Pokemon) error {
	card, err := s.renderer.RenderCard(p)
	if err != nil {
		return err
	}
	s.display.Append(card)
	return nil
}

// ClearContainer removes every card from the display
func (s *CatalogService) ClearContainer() {
	s.display.Clear()
}

// DismissNotice hides the current notice
func (s *CatalogService) DismissNotice() {
	s.display.DismissNotice()
}

// renderCards renders every pokemon before anything is appended, so a failure
// never leaves a partial list on display
func (s *CatalogService) renderCards(pokemon []*models.Pokemon) ([]models.CardFragment, error) {
	cards := make([]models.CardFragment, 0, len(pokemon))
	for _, p := range pokemon {
		card, err := s.renderer.RenderCard(p)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// State returns the current catalog state
func (s *CatalogService) State() CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoadError returns the error that made the load fail, if any
func (s *CatalogService) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Snapshot returns what the display currently shows
func (s *CatalogService) Snapshot() models.DisplaySnapshot {
	return s.display.Snapshot()
}

// paginateCards splits cards into pages of 9 cards each
func paginateCards(cards []models.CardFragment) [][]models.CardFragment {
	var pages [][]models.CardFragment
	for i := 0; i < len(cards); i += cardsPerPage {
		end := i + cardsPerPage
		if end > len(cards) {
			end = len(cards)
		}
		pages = append(pages, cards[i:end])
	}
	return pages
}

// RenderCatalogHTML renders the catalog page around the cards currently displayed.
// printable renders paginated sections without the search controls (used for exports).
func (s *CatalogService) RenderCatalogHTML(ctx context.Context, printable bool) (string, error) {
	defer startTiming(ctx, "render", "Render catalog page")()

	snap := s.display.Snapshot()
	state := s.State()

	templateData := struct {
		Cards        []models.CardFragment
		Pages        [][]models.CardFragment
		FilterActive bool
		Notice       *models.Notice
		Loading      bool
		Printable    bool
	}{
		Cards:        snap.Cards,
		Pages:        paginateCards(snap.Cards),
		FilterActive: snap.FilterActive,
		Notice:       snap.Notice,
		Loading:      state == StateEmpty || state == StateLoadingList || state == StateLoadingDetails,
		Printable:    printable,
	}

	var buf bytes.Buffer
	if err := templates.Catalog.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// detectChromePath returns the configured Chrome path or the first common
// installation path that exists
func (s *CatalogService) detectChromePath() string {
	if s.opts.ChromePath != "" {
		if _, err := os.Stat(s.opts.ChromePath); err == nil {
			return s.opts.ChromePath
		}
		logger.L().Warnf("⚠️  CHROME_PATH %s not found, falling back to detection", s.opts.ChromePath)
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// newBrowser starts a headless browser context. The returned cancel stops it.
func (s *CatalogService) newBrowser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if chromePath := s.detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		browserCancel()
		allocCancel()
	}
}

func (s *CatalogService) renderURL() string {
	return s.opts.BaseURL + "/catalog/render?printable=true"
}

// waitForImages waits until fonts and every sprite have loaded (or errored)
const waitForImages = `
	(function() {
		return Promise.all([
			document.fonts.ready,
			Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
				return new Promise((resolve) => {
					if (img.complete) { resolve(); return; }
					const timeout = setTimeout(() => resolve(), 5000);
					img.onload = () => { clearTimeout(timeout); resolve(); };
					img.onerror = () => { clearTimeout(timeout); resolve(); };
				});
			}))
		]);
	})();
`

// GeneratePDF prints the printable catalog page to PDF with chromedp
func (s *CatalogService) GeneratePDF(ctx context.Context) ([]byte, error) {
	defer startTiming(ctx, "pdf", "Print catalog to PDF")()

	if err := s.requireReady(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	browserCtx, browserCancel := s.newBrowser(ctx)
	defer browserCancel()

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(794, 1323), // 210mm x 350mm at 96 DPI
		chromedp.Navigate(s.renderURL()),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForImages, nil),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(13.78). // 350mm in inches
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	logger.L().Infof("✓ GeneratePDF: %d bytes", len(pdfBuf))
	return pdfBuf, nil
}

// GeneratePNG screenshots every printable page. Returns page number -> PNG data.
func (s *CatalogService) GeneratePNG(ctx context.Context) (map[int][]byte, error) {
	defer startTiming(ctx, "png", "Screenshot catalog pages")()

	if err := s.requireReady(); err != nil {
		return nil, err
	}

	expectedPages := len(paginateCards(s.display.Snapshot().Cards))
	timeout := time.Duration(20+expectedPages*10) * time.Second
	if timeout > 3*time.Minute {
		timeout = 3 * time.Minute
	}
	logger.L().Infof("📸 GeneratePNG: expectedPages=%d timeout=%s", expectedPages, timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	browserCtx, browserCancel := s.newBrowser(ctx)
	defer browserCancel()

	var pageCount float64
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(794, 1323),
		chromedp.Navigate(s.renderURL()),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForImages, nil),
		chromedp.Evaluate(`document.querySelectorAll('.page').length`, &pageCount),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	if int(pageCount) == 0 {
		return nil, fmt.Errorf("no pages found in HTML")
	}

	pngs := make(map[int][]byte, int(pageCount))
	for pageNum := 1; pageNum <= int(pageCount); pageNum++ {
		var buf []byte
		selector := fmt.Sprintf("#page-%d", pageNum)
		if err := chromedp.Run(browserCtx, chromedp.Screenshot(selector, &buf, chromedp.ByQuery)); err != nil {
			return nil, fmt.Errorf("failed to capture page %d: %w", pageNum, err)
		}
		pngs[pageNum] = buf
	}

	logger.L().Infof("✓ GeneratePNG: captured %d pages", len(pngs))
	return pngs, nil
}

func (s *CatalogService) requireReady() error {
	state := s.State()
	if state != StateRendered && state != StateFiltered {
		return ErrCatalogNotReady
	}
	return nil
}
