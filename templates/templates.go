package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

var (
	// Card renders one models.CardFragment
	Card = template.Must(template.ParseFS(files, "card.html"))
	// Catalog renders the whole page around the rendered cards
	Catalog = template.Must(template.New("catalog.html").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(files, "catalog.html"))
)
