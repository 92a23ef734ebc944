package service

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"pokedex-cards/models"
	"pokedex-cards/templates"
	"pokedex-cards/utils"
)

// maxMovesShown is how many moves a card lists before the ellipsis
const maxMovesShown = 6

// ErrNotRenderable is returned for pokemon whose detail is not resolved
var ErrNotRenderable = errors.New("pokemon is not renderable")

// CardRenderer turns a resolved Pokemon into a card fragment
type CardRenderer struct {
	colors       models.TypeColorTable
	proxySprites bool
}

// NewCardRenderer creates a CardRenderer. With proxySprites the card image points at
// the local /sprites/{id} endpoint instead of the raw sprite URL.
func NewCardRenderer(colors models.TypeColorTable, proxySprites bool) *CardRenderer {
	return &CardRenderer{
		colors:       colors,
		proxySprites: proxySprites,
	}
}

// RenderCard builds the card of one pokemon. It has no side effects.
func (r *CardRenderer) RenderCard(p *models.Pokemon) (models.CardFragment, error) {
	detail, ok := p.Detail()
	if !ok {
		return models.CardFragment{}, fmt.Errorf("%w: %s is %s", ErrNotRenderable, p.Name, p.State())
	}

	start, end := r.gradient(detail.Types)
	card := models.CardFragment{
		ID:            p.ID,
		Name:          p.Name,
		ImageURL:      r.imageURL(p, detail),
		GradientStart: start,
		GradientEnd:   end,
		Pills:         r.pills(detail.Types),
		Height:        utils.FormatMeasure(detail.Height, "m"),
		Weight:        utils.FormatMeasure(detail.Weight, "kg"),
		MovesText:     movesText(detail.Moves),
		Stats:         statLines(detail.Stats),
	}

	var buf bytes.Buffer
	if err := templates.Card.Execute(&buf, card); err != nil {
		return models.CardFragment{}, fmt.Errorf("failed to execute card template for %s: %w", p.Name, err)
	}
	card.HTML = template.HTML(buf.String())
	return card, nil
}

// gradient uses the first two types, a single type colors both stops
func (r *CardRenderer) gradient(types []string) (string, string) {
	if len(types) == 0 {
		return r.colors.Fallback, r.colors.Fallback
	}
	start := r.colors.ColorFor(types[0])
	if len(types) == 1 {
		return start, start
	}
	return start, r.colors.ColorFor(types[1])
}

func (r *CardRenderer) pills(types []string) []models.TypePill {
	pills := make([]models.TypePill, 0, len(types))
	for _, t := range types {
		pills = append(pills, models.TypePill{
			Label: utils.CapitalizeFirst(t),
			Color: r.colors.ColorFor(t),
		})
	}
	return pills
}

func (r *CardRenderer) imageURL(p *models.Pokemon, detail *models.PokemonDetail) string {
	if r.proxySprites && detail.ImageURL != "" {
		return fmt.Sprintf("/sprites/%d", p.ID)
	}
	return detail.ImageURL
}

// movesText lists the first moves followed by "..." whether or not more exist
func movesText(moves []string) string {
	if len(moves) > maxMovesShown {
		moves = moves[:maxMovesShown]
	}
	return strings.Join(moves, ", ") + "..."
}

func statLines(stats []models.Stat) []models.StatLine {
	lines := make([]models.StatLine, 0, len(stats))
	for _, s := range stats {
		lines = append(lines, models.StatLine{Label: utils.StatLabel(s.Name), Value: s.Value})
	}
	return lines
}
