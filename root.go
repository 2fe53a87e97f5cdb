package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lmorel/tremolo/internal/app"
	"github.com/lmorel/tremolo/internal/catalog"
	"github.com/lmorel/tremolo/internal/config"
	"github.com/lmorel/tremolo/internal/errmsg"
	"github.com/lmorel/tremolo/internal/input"
	"github.com/lmorel/tremolo/internal/keymap"
	"github.com/lmorel/tremolo/internal/logging"
	"github.com/lmorel/tremolo/internal/mpris"
	"github.com/lmorel/tremolo/internal/player"
	"github.com/lmorel/tremolo/internal/state"
	"github.com/lmorel/tremolo/internal/stderr"
	"github.com/lmorel/tremolo/internal/term"
	"github.com/lmorel/tremolo/internal/ui"
)

var (
	flagConfig   string
	flagLogLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tremolo",
		Short: "A terminal music player",
		Long: `Tremolo plays your local music library from the terminal.
Run it without arguments to open the player; use "tremolo import"
to add music directories first.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPlayer()
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "",
		"hotkey configuration file (default ~/.config/tremolo/config.toml)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level: trace, debug, info, warn or error (default from TREMOLO_LOG_LEVEL)")
	root.AddCommand(newImportCmd())
	root.AddCommand(newKeysCmd())
	return root
}

func logLevel() (zerolog.Level, error) {
	if flagLogLevel == "" {
		return logging.LevelFromEnv(), nil
	}
	return zerolog.ParseLevel(flagLogLevel)
}

func runPlayer() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	level, err := logLevel()
	if err != nil {
		return err
	}
	status := &logging.StatusLine{}
	logger, closeLog, err := logging.Setup(level, status)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	tty := os.Stdin
	if !term.IsTerminal(tty) || !term.IsTerminal(os.Stdout) {
		return errors.New("tremolo needs an interactive terminal")
	}

	states, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpCatalogOpen, err))
	}
	defer states.Close()
	cat := catalog.New(states.DB())

	// Capture stray fd-2 writes before raw mode begins and mpv spawns.
	if err := stderr.Start(); err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	restoreTerm, err := term.MakeRaw(tty)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer restoreTerm()

	in, err := term.NewInput(tty)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	stream := keymap.Start(in, keymap.NewResolver(cfg.Bindings), logger)
	defer stream.Close()

	pl := player.New(logger)
	if err := pl.Start(); err != nil {
		return errors.New(errmsg.Format(errmsg.OpPlayerConnect, err))
	}
	defer pl.Close()
	events := pl.Subscribe()

	if bridge, err := mpris.New(pl); err != nil {
		logger.Warn().Err(err).Msg("media key bridge unavailable")
	} else {
		defer bridge.Close()
	}

	screen := ui.NewScreen(os.Stdout)
	if err := screen.Enter(); err != nil {
		return err
	}
	defer screen.Leave()

	logger.Info().Str("version", version).Msg("tremolo started")

	return app.New(app.Options{
		Log:     logger,
		Stream:  stream,
		Catalog: cat,
		States:  states,
		Player:  pl,
		Events:  events,
		Screen:  screen,
		Status:  status,
		Stderr:  stderr.Messages,
		TTY:     tty,
	}).Run()
}

func newImportCmd() *cobra.Command {
	var musicDir string
	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Add a music directory and scan it into the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := musicDir
			if len(args) > 0 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("no directory given, pass one or use --music-dir")
			}
			return runImport(dir)
		},
	}
	cmd.Flags().StringVar(&musicDir, "music-dir", "", "music directory to import")
	return cmd
}

func runImport(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	states, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpCatalogOpen, err))
	}
	defer states.Close()

	cat := catalog.New(states.DB())
	if err := cat.AddSource(abs); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpCatalogImport, abs, err))
	}
	sources, err := cat.Sources()
	if err != nil {
		return err
	}

	fmt.Printf("Scanning %d source(s)...\n", len(sources))
	progress := make(chan catalog.ScanProgress, 64)
	scanErr := make(chan error, 1)
	go func() { scanErr <- cat.Scan(sources, progress) }()

	var stats *catalog.ScanStats
	for p := range progress {
		switch p.Phase {
		case "processing":
			fmt.Printf("\rImporting %d/%d", p.Current, p.Total)
		case "done":
			stats = p.Stats
		}
	}
	fmt.Println()
	if err := <-scanErr; err != nil {
		return errors.New(errmsg.Format(errmsg.OpCatalogScan, err))
	}

	if stats != nil {
		fmt.Printf("Done: %d added, %d updated, %d removed\n",
			stats.Added, stats.Updated, stats.Removed)
	}
	tracks, err := cat.TrackCount()
	if err != nil {
		return err
	}
	albums, err := cat.AlbumCount()
	if err != nil {
		return err
	}
	artists, err := cat.ArtistCount()
	if err != nil {
		return err
	}
	fmt.Printf("Catalog: %s tracks, %s albums, %s artists\n",
		humanize.Comma(int64(tracks)), humanize.Comma(int64(albums)), humanize.Comma(int64(artists)))
	return nil
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print decoded input events, for trying out hotkey names",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runKeys()
		},
	}
}

func runKeys() error {
	tty := os.Stdin
	if !term.IsTerminal(tty) {
		return errors.New("standard input is not a terminal")
	}
	restore, err := term.MakeRaw(tty)
	if err != nil {
		return err
	}
	defer restore()

	fmt.Print("Press keys to see their decoded events, q or Ctrl+C quits.\r\n")
	dec := input.NewDecoder(bufio.NewReader(tty))
	for {
		ev, err := dec.Next()
		if err != nil {
			if errors.Is(err, input.ErrDecode) {
				fmt.Print("undecodable sequence\r\n")
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		fmt.Printf("%s\r\n", ev)
		if ev.Type == input.EventKey && (ev.Key == input.Rune('q') || ev.Key == input.Ctrl('c')) {
			return nil
		}
	}
}
