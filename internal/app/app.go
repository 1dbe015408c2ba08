package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easelapp/easel/internal/canvas"
	"github.com/easelapp/easel/internal/config"
	"github.com/easelapp/easel/internal/engine"
	"github.com/easelapp/easel/internal/gridd"
	"github.com/easelapp/easel/internal/poll"
	"github.com/easelapp/easel/internal/prefs"
	"github.com/easelapp/easel/internal/ui"
)

// Options configure the Easel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/easel/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	Discover   bool   // force mDNS discovery regardless of config
	ImportPath string // image to stage into the user layer on startup
}

// Run boots the Easel TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load easel config: %w", err)
	}

	// The terminal belongs to the UI; background noise goes to a file.
	if cleanup, err := redirectLog(cfg); err == nil {
		defer cleanup()
	}

	if opts.Discover || cfg.Discover {
		if addr, err := gridd.Discover(); err == nil {
			log.Printf("discovered gridd at %s", addr)
			cfg.Server = addr
		} else {
			log.Printf("discovery failed, using %s: %v", cfg.Server, err)
		}
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := gridd.NewClient(cfg.Server)
	if err != nil {
		return fmt.Errorf("init gridd client: %w", err)
	}

	store := canvas.NewStore(client)

	// Load the canvas before the UI starts; an unreachable daemon is a
	// startup failure, not something to retry behind a blank screen.
	initial, err := store.Init(ctx)
	if err != nil {
		return fmt.Errorf("load canvas from %s: %w", cfg.Server, err)
	}

	width, height := store.Dimensions()
	eng := engine.New(engine.Options{GridWidth: width, GridHeight: height})
	eng.UpdateInitialData(initial.Changed)

	if opts.ImportPath != "" {
		if err := stageImport(eng, opts.ImportPath); err != nil {
			return err
		}
	}

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}
	poller := poll.New(store, poll.Options{BaseInterval: interval})

	// Bridge poller callbacks into the Bubble Tea loop. Callbacks run on the
	// poller goroutine and must never touch the engine directly.
	events := make(chan tea.Msg, 32)
	poller.OnUpdate(func(res canvas.SyncResult) {
		select {
		case events <- ui.SyncApplied(res):
		default:
			log.Printf("dropping sync result at revision %d, UI is behind", res.Revision)
		}
	})
	poller.OnError(func(err error) {
		log.Printf("sync failed: %v", err)
		select {
		case events <- ui.SyncFailed(err):
		default:
		}
	})
	poller.Start()
	defer poller.Stop()

	// The watch feed only nudges the poller; a dead socket degrades to
	// plain polling.
	if watcher, err := gridd.NewWatcher(cfg.Server); err == nil {
		go func() {
			if err := watcher.Run(ctx, func(gridd.Head) { poller.ForceSync() }); err != nil {
				log.Printf("watch feed unavailable: %v", err)
			}
		}()
	}

	lastColor, _ := ui.ParseColor(userPrefs.LastColor)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Engine:    eng,
		Poller:    poller,
		Config:    &cfg,
		Events:    events,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		LastColor: lastColor,
	})
}

// stageImport decodes an image file and stages it as one undoable entry in
// the user layer.
func stageImport(eng *engine.Engine, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import image: %w", err)
	}
	defer file.Close()

	pixels, err := eng.DecodeImportImage(file)
	if err != nil {
		return err
	}
	eng.ImportDrawing(pixels)
	log.Printf("staged %d pixels from %s", len(pixels), path)
	return nil
}

// redirectLog points the standard logger at easel's log file.
func redirectLog(cfg config.Config) (func(), error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	return func() {
		log.SetOutput(os.Stderr)
		_ = file.Close()
	}, nil
}
