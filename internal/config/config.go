// internal/config/config.go
//
// Runtime configuration.
// Sources, later ones win:
//   1. Built-in defaults.
//   2. Environment variables (a .env file is loaded by main via godotenv).
//   3. The optional YAML game-tuning file named by GAME_CONFIG (or --config).
//
// Environment variables:
//   PORT, DB_PATH, JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME,
//   CLIENT_ORIGIN, DAILY_SALT, APP_ENV, GAME_CONFIG

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/trianglequiz/internal/game"
	"github.com/robalobadob/trianglequiz/internal/random"
	"github.com/robalobadob/trianglequiz/internal/triangle"
)

var validate = validator.New()

// Config is the server configuration.
type Config struct {
	Port           string `validate:"required,numeric"`
	DBPath         string `validate:"required"`
	JWTSecret      string `validate:"required"`
	JWTExpiresDays int    `validate:"gte=1"`
	CookieName     string `validate:"required"`
	ClientOrigin   string `validate:"required"`
	DailySalt      string `validate:"required"`
	Production     bool

	Game Game
}

// Game tunes triangle generation and round flow.
type Game struct {
	Weights      []float64       `yaml:"weights" validate:"len=3,dive,gte=0"`
	Chooser      string          `yaml:"chooser" validate:"oneof=linear cumulative"`
	AdvanceDelay time.Duration   `yaml:"advance_delay" validate:"gt=0"`
	Triangle     triangle.Config `yaml:"triangle"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           "5175",
		DBPath:         "./data/app.db",
		JWTSecret:      "dev_secret_change_me",
		JWTExpiresDays: 14,
		CookieName:     "triangle_token",
		ClientOrigin:   "http://localhost:5173",
		DailySalt:      "local_dev_salt",
		Game:           DefaultGame(),
	}
}

// DefaultGame returns the built-in game tuning.
func DefaultGame() Game {
	return Game{
		Weights:      append([]float64(nil), triangle.DefaultWeights...),
		Chooser:      "linear",
		AdvanceDelay: game.DefaultAdvanceDelay,
		Triangle:     triangle.DefaultConfig(),
	}
}

// Load builds a Config from defaults, the environment and an optional
// YAML file. An empty path falls back to GAME_CONFIG.
func Load(path string) (Config, error) {
	c := Default()
	c.Port = getEnv("PORT", c.Port)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.CookieName = getEnv("COOKIE_NAME", c.CookieName)
	c.ClientOrigin = getEnv("CLIENT_ORIGIN", c.ClientOrigin)
	c.DailySalt = getEnv("DAILY_SALT", c.DailySalt)
	c.Production = os.Getenv("APP_ENV") == "production"
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("config: JWT_EXPIRES_DAYS: %w", err)
		}
		c.JWTExpiresDays = n
	}

	if path == "" {
		path = os.Getenv("GAME_CONFIG")
	}
	if path != "" {
		g, err := LoadGame(path)
		if err != nil {
			return c, err
		}
		c.Game = g
	}

	if err := validate.Struct(c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := c.Game.Triangle.Validate(); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// LoadGame reads a YAML game-tuning file. Keys missing from the file keep
// their defaults.
func LoadGame(path string) (Game, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Game{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseGame(raw)
}

// ParseGame decodes YAML game tuning on top of DefaultGame and validates it.
func ParseGame(raw []byte) (Game, error) {
	g := DefaultGame()
	if err := yaml.Unmarshal(raw, &g); err != nil {
		return Game{}, fmt.Errorf("config: decode game: %w", err)
	}
	if err := validate.Struct(g); err != nil {
		return Game{}, fmt.Errorf("config: game: %w", err)
	}
	if err := g.Triangle.Validate(); err != nil {
		return Game{}, fmt.Errorf("config: game: %w", err)
	}
	return g, nil
}

// NewGenerator builds a triangle generator from the tuning, drawing from src.
func (g Game) NewGenerator(src random.Source) (*triangle.Generator, error) {
	var ch random.Chooser = random.NewLinear(src)
	if g.Chooser == "cumulative" {
		ch = random.NewCumulative()
	}
	return triangle.NewGenerator(g.Triangle, src, triangle.WithWeights(g.Weights), triangle.WithChooser(ch))
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
