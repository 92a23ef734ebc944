package models

import "html/template"

// TypePill is a colored badge for one pokemon type
type TypePill struct {
	Label string `json:"label"` // Capitalized (e.g., "Grass")
	Color string `json:"color"`
}

// StatLine is one rendered stat (e.g., "SPECIAL ATTACK" 65)
type StatLine struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// CardFragment is the rendered card of one pokemon
type CardFragment struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	ImageURL      string        `json:"imageUrl"`
	GradientStart string        `json:"gradientStart"`
	GradientEnd   string        `json:"gradientEnd"`
	Pills         []TypePill    `json:"pills"`
	Height        string        `json:"height"` // "0.70 m"
	Weight        string        `json:"weight"` // "6.90 kg"
	MovesText     string        `json:"moves"`
	Stats         []StatLine    `json:"stats"`
	HTML          template.HTML `json:"-"`
}

// NoticeKind separates load failures from informational notices
type NoticeKind string

const (
	NoticeError NoticeKind = "error"
	NoticeInfo  NoticeKind = "info"
)

// Notice is a dismissable message shown above the cards
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// DisplaySnapshot is a copy of what the display surface currently shows
type DisplaySnapshot struct {
	Cards        []CardFragment `json:"cards"`
	FilterActive bool           `json:"filterActive"`
	Notice       *Notice        `json:"notice,omitempty"`
}

// Names returns the card names in display order
func (s DisplaySnapshot) Names() []string {
	names := make([]string, 0, len(s.Cards))
	for _, c := range s.Cards {
		names = append(names, c.Name)
	}
	return names
}
