package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/patzerworks/openinglens/pkg/cluster"
	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/render"
	"github.com/patzerworks/openinglens/pkg/store"
	"github.com/patzerworks/openinglens/pkg/viewport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx := context.Background()

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if cfg.SeedDemo {
		n, err := st.CountGames(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			if err := seedDemoGames(ctx, st); err != nil {
				return fmt.Errorf("seed demo games: %w", err)
			}
			logger.Info("seeded demo games", "db", cfg.DBPath)
		}
	}

	games, err := st.Games(ctx, store.GameFilter{MaxPlies: cfg.MaxDepth})
	if err != nil {
		return fmt.Errorf("load games: %w", err)
	}
	if len(games) == 0 {
		return errors.New("no games in the database; import games or pass -seed-demo")
	}

	data := graph.Build(games, graph.BuildOptions{
		MaxDepth:     cfg.MaxDepth,
		MinGameCount: cfg.MinGames,
	})
	logger.Info("graph built",
		"games", len(games), "nodes", len(data.Nodes), "edges", len(data.Edges))

	// Headless engine run: same fit and hull computation the interactive
	// host uses, driven with a single timestamp.
	now := time.Now()
	eng := viewport.New(viewport.Callbacks{}, logger, now)
	defer eng.Close()
	eng.SetSize(cfg.Width, cfg.Height, now)
	eng.SetGraph(data, now)

	if cfg.Method != "none" {
		opts := cluster.DefaultOptions()
		opts.Method = cluster.Method(cfg.Method)
		opts.K = cfg.K
		res := cluster.Run(data.Nodes, opts)
		for _, insight := range res.Insights {
			logger.Info("cluster insight", "text", insight)
		}
		logger.Info("clustering done",
			"method", cfg.Method, "clusters", len(res.Clusters), "k", res.K)
		eng.SetPositionClusters(res.Clusters, "", now)
	}

	transform, ok := eng.Transform()
	if !ok {
		return errors.New("viewport produced no transform")
	}

	mainLine := make(map[string]bool)
	for _, e := range graph.MainLine(data) {
		mainLine[render.EdgeKey(e)] = true
	}

	scene := render.Scene{
		Data:          data,
		Transform:     transform,
		Width:         cfg.Width,
		Height:        cfg.Height,
		PixelRatio:    cfg.PixelRatio,
		Mode:          render.Mode(cfg.Mode),
		PositionHulls: eng.PositionHulls(),
		OpeningHulls:  eng.OpeningHulls(),
		MainLine:      mainLine,
	}

	out, err := os.Create(cfg.OutPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	switch cfg.Format {
	case "svg":
		if err := render.WriteSVG(out, scene); err != nil {
			return err
		}
	default:
		p := render.NewPipeline()
		p.Frame(scene)
		if err := p.WritePNG(out); err != nil {
			return err
		}
	}

	logger.Info("wrote output", "path", cfg.OutPath, "format", cfg.Format)
	return nil
}
