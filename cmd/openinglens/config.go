package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultOut    = "openings.png"
	defaultWidth  = 1600.0
	defaultHeight = 1200.0
)

type Config struct {
	DBPath     string
	OutPath    string
	Format     string // png or svg
	Mode       string // opening or performance
	Method     string // none, dbscan, or kmeans
	K          int    // kmeans cluster count; 0 selects automatically
	MaxDepth   int
	MinGames   int
	Width      float64
	Height     float64
	PixelRatio float64
	SeedDemo   bool
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	dbPath := envOrDefault("OPENINGLENS_DB_PATH", filepath.Join(cwd, "openinglens.db"))

	flagSet := flag.NewFlagSet("openinglens", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagDB := flagSet.String("db", dbPath, "path to SQLite games database")
	flagOut := flagSet.String("out", defaultOut, "output file (.png or .svg)")
	flagFormat := flagSet.String("format", "", "output format: png|svg (default from -out extension)")
	flagMode := flagSet.String("mode", "opening", "render mode: opening|performance")
	flagMethod := flagSet.String("cluster", "none", "cluster overlay: none|dbscan|kmeans|auto")
	flagK := flagSet.Int("k", 0, "kmeans cluster count (0 selects automatically)")
	flagDepth := flagSet.Int("max-depth", 0, "move tree depth in plies (0 uses the default)")
	flagMinGames := flagSet.Int("min-games", 0, "drop lines played fewer times than this")
	flagWidth := flagSet.Float64("width", defaultWidth, "output width in pixels")
	flagHeight := flagSet.Float64("height", defaultHeight, "output height in pixels")
	flagRatio := flagSet.Float64("pixel-ratio", 1, "device pixel ratio for png output")
	flagSeed := flagSet.Bool("seed-demo", false, "seed demo games when the database is empty")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}

	config := Config{
		DBPath:     resolvePath(*flagDB, cwd),
		OutPath:    resolvePath(*flagOut, cwd),
		Format:     strings.ToLower(strings.TrimSpace(*flagFormat)),
		Mode:       strings.ToLower(strings.TrimSpace(*flagMode)),
		Method:     strings.ToLower(strings.TrimSpace(*flagMethod)),
		K:          *flagK,
		MaxDepth:   *flagDepth,
		MinGames:   *flagMinGames,
		Width:      *flagWidth,
		Height:     *flagHeight,
		PixelRatio: *flagRatio,
		SeedDemo:   *flagSeed,
	}

	if config.Format == "" {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(config.OutPath), "."))
		if ext == "png" || ext == "svg" {
			config.Format = ext
		} else {
			config.Format = "png"
		}
	}
	if config.Format != "png" && config.Format != "svg" {
		return Config{}, fmt.Errorf("unsupported format: %s", config.Format)
	}
	if config.Mode != "opening" && config.Mode != "performance" {
		return Config{}, fmt.Errorf("unsupported mode: %s", config.Mode)
	}
	switch config.Method {
	case "none", "dbscan", "kmeans":
	case "auto":
		// kmeans with k=0 picks k itself
		config.Method = "kmeans"
		config.K = 0
	default:
		return Config{}, fmt.Errorf("unsupported cluster method: %s", config.Method)
	}
	if config.Width <= 0 || config.Height <= 0 {
		return Config{}, errors.New("width and height must be positive")
	}
	if config.PixelRatio <= 0 {
		return Config{}, errors.New("pixel ratio must be positive")
	}
	if config.K < 0 {
		return Config{}, errors.New("k cannot be negative")
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func resolvePath(path, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}
