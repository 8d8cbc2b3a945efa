package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/linkscope/linkscope/pkg/canvas"
	"github.com/linkscope/linkscope/pkg/config"
	"github.com/linkscope/linkscope/pkg/export"
	"github.com/linkscope/linkscope/pkg/layout"
	"github.com/linkscope/linkscope/pkg/loader"
	"github.com/linkscope/linkscope/pkg/render"
	"github.com/linkscope/linkscope/pkg/ui"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	mode := flag.String("mode", "graph", "Canvas mode: 'graph' (edge list) or 'links' (links-as-nodes)")
	layoutName := flag.String("layout", "", "Initial layout: spring, circular, random, force-directed, spectral")
	configPath := flag.String("config", "", "Config file path (default: discover .lv/config.yaml)")
	initConfig := flag.Bool("init", false, "Write a default .lv/config.yaml here and exit")
	exportPNG := flag.String("export-png", "", "Render a PNG snapshot to the given path and exit")
	exportSVG := flag.String("export-svg", "", "Render an SVG snapshot to the given path and exit")
	robotStats := flag.Bool("robot-stats", false, "Output canvas stats as JSON for AI agents and exit")
	watch := flag.Bool("watch", false, "Reload the canvas when the input file changes")
	flag.Parse()

	if *help {
		fmt.Println("Usage: lv [options] <file.csv>")
		fmt.Println("\nAn interactive graph canvas for the terminal.")
		fmt.Println("In 'graph' mode the CSV is an edge list (from,to per row).")
		fmt.Println("In 'links' mode every CSV row is a link that is itself a node;")
		fmt.Println("links may reference other links by their 1-based row id.")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *initConfig {
		path, err := config.Init("")
		if err != nil {
			if os.IsExist(err) {
				fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one input file, got %d\n", flag.NArg())
		fmt.Fprintf(os.Stderr, "Usage: lv [options] <file.csv>\n")
		os.Exit(1)
	}
	sourcePath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	layoutKind := layout.Kind(cfg.DefaultLayout)
	if *layoutName != "" {
		layoutKind = layout.Kind(*layoutName)
	}

	// Headless paths: snapshot renders and machine-readable stats.
	if *exportPNG != "" || *exportSVG != "" || *robotStats {
		f, err := os.Open(sourcePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", sourcePath, err)
			os.Exit(1)
		}
		defer f.Close()

		req := export.SnapshotRequest{
			PNGPath: *exportPNG,
			SVGPath: *exportSVG,
		}
		if *robotStats {
			req.StatsTo = "-"
		}
		if err := export.Snapshot(*mode, f, cfg, layoutKind, req); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	gm, err := export.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scene := render.NewScene()
	// Real dimensions arrive with the first WindowSizeMsg.
	c := canvas.New(gm, scene, 80, 48, 1)

	f, err := os.Open(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", sourcePath, err)
		os.Exit(1)
	}
	loadErr := c.Load(f)
	f.Close()
	if loadErr != nil {
		if le, ok := loader.AsLoadError(loadErr); ok {
			fmt.Fprintf(os.Stderr, "Error loading %s (%s): %s\n", sourcePath, le.Check, le.Reason)
		} else {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", sourcePath, loadErr)
		}
		os.Exit(1)
	}
	if layoutKind != layout.Spring {
		c.ApplyLayout(layoutKind)
	}

	var watcher *export.Watcher
	if *watch {
		watcher, err = export.WatchFile(sourcePath, cfg.Watch.Debounce)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: watch disabled: %v\n", err)
		} else {
			defer watcher.Stop()
		}
	}

	m := ui.NewModel(c, scene, cfg, sourcePath, watcher)
	if err := ui.Run(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
