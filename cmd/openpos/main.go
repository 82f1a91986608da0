// Package main is the entry point for the OpenPos terminal client.
//
// OpenPos fetches trading positions from a remote API, validates them and
// shows them as filterable, sortable cards that load in batches as you
// scroll. View preferences, theme and language persist between runs in
// <data dir>/preferences.db.
//
// Run with -once for a plain table on stdout instead of the interactive UI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/GeekNeuron/OpenPos/internal/app"
	"github.com/GeekNeuron/OpenPos/internal/clients/positionapi"
	"github.com/GeekNeuron/OpenPos/internal/config"
	"github.com/GeekNeuron/OpenPos/internal/i18n"
	"github.com/GeekNeuron/OpenPos/internal/positions"
	"github.com/GeekNeuron/OpenPos/internal/preferences"
	"github.com/GeekNeuron/OpenPos/internal/render"
	"github.com/GeekNeuron/OpenPos/internal/scheduler"
	"github.com/GeekNeuron/OpenPos/internal/theme"
	"github.com/GeekNeuron/OpenPos/internal/ui"
	"github.com/GeekNeuron/OpenPos/pkg/logger"
)

func main() {
	apiURL := flag.String("api-url", "", "Positions API URL (overrides OPENPOS_API_URL)")
	once := flag.Bool("once", false, "Print positions as a table and exit")
	maxWidth := flag.Int("max-width", 0, "Max columns (0 = no limit)")
	maxHeight := flag.Int("max-height", 0, "Max rows (0 = no limit)")
	resetPrefs := flag.Bool("reset-prefs", false, "Forget saved view, language and theme before starting")
	flag.Parse()

	if err := run(*apiURL, *once, *resetPrefs, *maxWidth, *maxHeight); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(apiURL string, once, resetPrefs bool, maxWidth, maxHeight int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// The terminal belongs to the UI, so logs go to a file
	logFile, err := logger.OpenFile(cfg.DataDir, "openpos.log")
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: logFile,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("api_url", cfg.APIURL).
		Str("data_dir", cfg.DataDir).
		Bool("once", once).
		Msg("Starting OpenPos")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := preferences.Open(ctx, cfg.DataDir, log)
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}
	defer store.Close()

	if resetPrefs {
		if _, err := store.Reset(); err != nil {
			return fmt.Errorf("failed to reset preferences: %w", err)
		}
	}

	lang := store.Language(cfg.Language)
	view := store.LoadView()

	if once {
		return runOnce(ctx, cfg, log, lang, view)
	}

	progress := make(chan positionapi.Progress, 4)
	client := positionapi.NewClient(cfg.APIURL, positionapi.Options{
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
		AttemptTimeout: cfg.AttemptTimeout,
		OnProgress: func(p positionapi.Progress) {
			// Never block the fetch on a busy UI
			select {
			case progress <- p:
			default:
			}
		},
	}, log)

	state := app.NewState(
		render.NewController(cfg.BatchSize, render.NewLogSink(log)),
		positions.SorterFor(lang),
		view,
		store,
		log,
	)

	model := ui.NewModel(ui.Config{
		State:     state,
		Fetcher:   client,
		Settings:  store,
		Progress:  progress,
		Language:  lang,
		Theme:     store.Theme(theme.NameDark),
		APIURL:    client.URL(),
		MaxWidth:  maxWidth,
		MaxHeight: maxHeight,
		Log:       log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	sched := scheduler.New(log)
	if cfg.RefreshSchedule != "" {
		err := sched.AddJob(cfg.RefreshSchedule, scheduler.JobFunc{
			JobName: "refresh_positions",
			Fn: func() error {
				p.Send(ui.RefreshMsg{})
				return nil
			},
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		log.Info().Int("jobs", sched.Jobs()).Str("schedule", cfg.RefreshSchedule).Msg("Auto-refresh enabled")
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("UI exited with error")
		return err
	}

	log.Info().Msg("OpenPos stopped")
	return nil
}

// runOnce fetches once and prints a table using the stored view preferences
func runOnce(ctx context.Context, cfg *config.Config, log zerolog.Logger, lang string, view preferences.View) error {
	tr := i18n.New(lang)
	client := positionapi.NewClient(cfg.APIURL, positionapi.Options{
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
		AttemptTimeout: cfg.AttemptTimeout,
		OnProgress: func(p positionapi.Progress) {
			fmt.Fprintln(os.Stderr, tr.T("app.retrying", map[string]string{
				"attempt": fmt.Sprint(p.Attempt),
				"max":     fmt.Sprint(p.MaxRetries),
				"delay":   p.Delay.String(),
			}))
		},
	}, log)

	res, err := app.Load(ctx, client, log)
	if err != nil {
		key, vars := app.MessageKey(err)
		return errors.New(tr.T(key, vars))
	}
	for _, msg := range res.Errors {
		fmt.Fprintln(os.Stderr, msg)
	}

	key, _ := positions.ParseSortKey(view.SortBy)
	list := positions.SorterFor(lang).Sort(positions.Filter(res.Positions, view.TypeFilter, view.SymbolSearch), key)

	if len(list) == 0 {
		msgKey := "empty.noData"
		if len(res.Positions) > 0 {
			msgKey = "empty.filtered"
		}
		fmt.Println(tr.T(msgKey, nil))
		return nil
	}

	fmt.Print(ui.RenderTable(list, tr))
	return nil
}
