package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lightviz/internal/catalog"
	"github.com/san-kum/lightviz/internal/config"
	"github.com/san-kum/lightviz/internal/console"
	"github.com/san-kum/lightviz/internal/engine"
	"github.com/san-kum/lightviz/internal/pipeline"
	"github.com/san-kum/lightviz/internal/rpc"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	listen     string
	colormap   string
	theme      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "lightviz",
		Short:        "remote scientific visualization session server",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "dataset directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the visualization RPC endpoint",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&colormap, "colormap", "", "preset applied after each dataset load")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list datasets",
		Args:  cobra.NoArgs,
		RunE:  listDatasets,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [name]",
		Short: "show a dataset descriptor",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectDataset,
	}

	thumbsCmd := &cobra.Command{
		Use:   "thumbs [name]",
		Short: "show the thumbnails of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  showThumbnails,
	}

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "interactive operator console on a headless engine",
		Args:  cobra.NoArgs,
		RunE:  runConsole,
	}
	consoleCmd.Flags().StringVar(&theme, "theme", "", fmt.Sprintf("console theme (%s)", strings.Join(console.ThemeNames(), ", ")))

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDATA\tLISTEN\tLOG")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\n", name, p.DataDir, p.Listen, p.LogLevel, p.LogFormat)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(serveCmd, listCmd, inspectCmd, thumbsCmd, consoleCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config from preset, file and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if f := cmd.Flags().Lookup("listen"); f != nil && f.Changed {
		cfg.Listen = listen
	}
	if f := cmd.Flags().Lookup("colormap"); f != nil && f.Changed {
		cfg.Colormap = colormap
	}
	if f := cmd.Flags().Lookup("theme"); f != nil && f.Changed {
		cfg.Theme = theme
	}
	return cfg, cfg.Validate()
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

// session is everything a command needs to work on the dataset directory.
type session struct {
	cfg    *config.Config
	log    *slog.Logger
	cat    *catalog.Catalog
	engine *engine.Headless
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ResolvedDataDir()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Scan(dir, logger)
	if err != nil {
		return nil, err
	}
	eng := engine.NewHeadless()
	eng.TupleBooleans = cfg.TupleBooleans
	return &session{cfg: cfg, log: logger, cat: cat, engine: eng}, nil
}

// dispatcher wires the pipeline onto a fresh call registry.
func (s *session) dispatcher() *rpc.Dispatcher {
	p := pipeline.New(s.engine, s.cat, s.log)
	p.Datasets.SetDefaultColormap(s.cfg.Colormap)
	reg := rpc.NewRegistry()
	rpc.RegisterPipeline(reg, p)
	return rpc.NewDispatcher(reg, s.log)
}

func serve(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	s.log.Info("catalog ready", "dir", s.cat.BaseDir(), "datasets", s.cat.Len())

	srv := rpc.NewServer(rpc.ServerConfig{
		Address:    s.cfg.Listen,
		RPCPath:    s.cfg.RPCPath,
		Dispatcher: s.dispatcher(),
		Logger:     s.log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

func listDatasets(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	datasets := s.cat.List()
	if len(datasets) == 0 {
		fmt.Println("no datasets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tARRAYS\tSTEPS\tFILE")
	for _, d := range datasets {
		names := make([]string, len(d.Data.Arrays))
		for i, a := range d.Data.Arrays {
			names[i] = a.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.Name, strings.Join(names, ","), len(d.Data.Time), d.Data.File)
	}
	return w.Flush()
}

func inspectDataset(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	d, err := s.cat.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("dataset: %s\n", d.Name)
	if d.Description != "" {
		fmt.Printf("description: %s\n", d.Description)
	}
	path, err := s.cat.DataPath(d.Name)
	if err != nil {
		return err
	}
	fmt.Printf("file: %s\n", path)
	b := d.Data.Bounds
	fmt.Printf("bounds: x[%g, %g] y[%g, %g] z[%g, %g]\n", b[0], b[1], b[2], b[3], b[4], b[5])
	c := d.Center()
	fmt.Printf("center: %g, %g, %g\n", c[0], c[1], c[2])
	fmt.Printf("thumbnails: %d\n\n", len(d.Thumbnails))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ARRAY\tLABEL\tMIN\tMAX")
	for _, a := range d.Data.Arrays {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\n", a.Name, a.Label, a.Range[0], a.Range[1])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(d.Data.Time) < 2 {
		return nil
	}
	fmt.Println()
	graph := asciigraph.Plot(d.Data.Time,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("time value per step (%d steps)", len(d.Data.Time))),
	)
	fmt.Println(graph)
	return nil
}

func showThumbnails(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	d, err := s.cat.Get(args[0])
	if err != nil {
		return err
	}
	uris, err := s.cat.Thumbnails(d.Name)
	if err != nil {
		return err
	}
	if len(uris) == 0 {
		fmt.Println("no thumbnails")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tTYPE\tBYTES")
	for i, uri := range uris {
		fmt.Fprintf(w, "%s\t%s\t%d\n", d.Thumbnails[i], catalog.MIMEType(d.Thumbnails[i]), len(uri))
	}
	return w.Flush()
}

func runConsole(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	// Keep log output off the terminal the console draws on.
	s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	return console.Run(s.dispatcher(), console.GetTheme(s.cfg.Theme))
}
