package models

import "strings"

// TypeColorTable maps a pokemon type name to a CSS color
type TypeColorTable struct {
	Fallback string            `yaml:"fallback" json:"fallback"`
	Types    map[string]string `yaml:"types" json:"types"`
}

// ColorFor returns the color for a type, or the fallback color for unknown types
func (t TypeColorTable) ColorFor(typeName string) string {
	if color, ok := t.Types[strings.ToLower(typeName)]; ok {
		return color
	}
	return t.Fallback
}
