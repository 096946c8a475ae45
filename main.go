package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"

	"timeline_stats/internal/config"
	"timeline_stats/internal/export"
	"timeline_stats/internal/logging"
	"timeline_stats/internal/server"
	"timeline_stats/internal/timeline"
	"timeline_stats/internal/tui"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: timeline_stats [flags] <events.json>
       timeline_stats -serve [addr]

Analyzes a video playback event log.

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "config file (default: search standard locations)")
	watch := flag.Bool("watch", false, "re-analyze when the file changes")
	serve := flag.Bool("serve", false, "run the HTTP analyze endpoint")
	addr := flag.String("addr", "", "listen address for -serve (default from config)")
	exportPath := flag.String("export", "", "write the report to an .xlsx workbook")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	interactive := !*serve && !*asJSON && *exportPath == ""
	closeLog, err := initLogging(cfg.Log, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if *serve {
		if *addr == "" {
			*addr = cfg.Server.Addr
		}
		if err := runServer(cfg, *addr); err != nil {
			logging.Err(err).Msg("server stopped")
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if !interactive {
		if err := runBatch(cfg, path, *asJSON, *exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTUI(cfg, path, *watch); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromDefaultPath()
}

// initLogging sets up the global logger. The TUI owns the terminal, so it
// only logs when a file is configured.
func initLogging(cfg config.LogConfig, interactive bool) (func(), error) {
	var out io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	case interactive:
		out = io.Discard
	}

	logging.Init(logging.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: out,
	})
	return closeFn, nil
}

func runServer(cfg *config.Config, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Pipeline:      cfg.Options(),
		MaxUploadSize: cfg.Server.MaxUploadSize,
	})
	return srv.Run(ctx, addr)
}

// runBatch analyzes once and writes the requested outputs
func runBatch(cfg *config.Config, path string, asJSON bool, exportPath string) error {
	report, err := timeline.AnalyzeFile(path, cfg.Options())
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		logging.Warn().Str("kind", w.Kind).Msg(w.Detail)
	}

	if exportPath != "" {
		if err := export.WriteWorkbook(report, exportPath); err != nil {
			return err
		}
		logging.Info().Str("path", exportPath).Msg("workbook written")
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return nil
}

func runTUI(cfg *config.Config, path string, watch bool) error {
	var w *timeline.Watcher
	if watch {
		var err error
		w, err = timeline.WatchFile(path, cfg.Options(), logging.With().Str("component", "watcher").Logger())
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
	}

	p := tea.NewProgram(tui.NewModel(path, cfg, w), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
