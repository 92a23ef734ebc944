package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pokedex-cards/logger"
	"pokedex-cards/models"
)

//go:embed type_colors.yaml
var defaultTypeColors []byte

const (
	defaultPort              = "8080"
	defaultLimit             = 151
	defaultListURL           = "https://pokeapi.co/api/v2/pokemon/"
	defaultDetailURLTemplate = "https://pokeapi.co/api/v2/pokemon/%s/"
)

// Config holds everything the app needs at startup
type Config struct {
	Port              string
	BaseURL           string
	Limit             int
	ListURL           string
	DetailURLTemplate string
	ChromePath        string
	SpriteProxy       bool
	Debug             bool
	TypeColors        models.TypeColorTable
}

// LoadDotEnv loads a .env file in development. A missing file is not an error,
// variables may also be set directly in the environment.
func LoadDotEnv(path string) {
	if os.Getenv("ENV") == "production" {
		return
	}
	if err := godotenv.Overload(path); err != nil {
		logger.L().Debugf("⚠️  .env file not found at %s, using system environment variables: %v", path, err)
		return
	}
	logger.L().Infof("✓ Loaded environment variables from %s", path)
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              strings.TrimPrefix(envOr("PORT", defaultPort), ":"),
		Limit:             defaultLimit,
		ListURL:           envOr("POKEAPI_LIST_URL", defaultListURL),
		DetailURLTemplate: envOr("DETAIL_URL_TEMPLATE", defaultDetailURLTemplate),
		ChromePath:        os.Getenv("CHROME_PATH"),
		SpriteProxy:       true,
	}
	cfg.BaseURL = strings.TrimSuffix(envOr("BASE_URL", "http://localhost:"+cfg.Port), "/")

	if raw := os.Getenv("POKEDEX_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid POKEDEX_LIMIT %q: %w", raw, err)
		}
		cfg.Limit = limit
	}
	if cfg.Limit < 1 {
		return nil, fmt.Errorf("POKEDEX_LIMIT must be at least 1, got %d", cfg.Limit)
	}

	if raw := os.Getenv("SPRITE_PROXY"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SPRITE_PROXY %q: %w", raw, err)
		}
		cfg.SpriteProxy = v
	}
	if raw := os.Getenv("DEBUG"); raw != "" {
		cfg.Debug, _ = strconv.ParseBool(raw)
	}

	colors, err := LoadTypeColors(os.Getenv("TYPE_COLORS_FILE"))
	if err != nil {
		return nil, err
	}
	cfg.TypeColors = colors

	return cfg, nil
}

// LoadTypeColors parses the type color table. An empty path returns the built-in table,
// entries of a file override the built-in ones.
func LoadTypeColors(path string) (models.TypeColorTable, error) {
	table, err := parseTypeColors(defaultTypeColors)
	if err != nil {
		return models.TypeColorTable{}, fmt.Errorf("failed to parse built-in type colors: %w", err)
	}
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.TypeColorTable{}, fmt.Errorf("failed to read type colors file: %w", err)
	}
	override, err := parseTypeColors(data)
	if err != nil {
		return models.TypeColorTable{}, fmt.Errorf("failed to parse type colors file %s: %w", path, err)
	}

	if override.Fallback != "" {
		table.Fallback = override.Fallback
	}
	for name, color := range override.Types {
		table.Types[name] = color
	}
	return table, nil
}

func parseTypeColors(data []byte) (models.TypeColorTable, error) {
	var table models.TypeColorTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return models.TypeColorTable{}, err
	}
	if table.Types == nil {
		table.Types = make(map[string]string)
	}
	return table, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
