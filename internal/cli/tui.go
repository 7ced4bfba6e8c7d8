package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sandeepkv93/petd/internal/storage"
	"github.com/sandeepkv93/petd/internal/update"
)

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runTUI launches the full-screen app. Without a terminal it prints the status instead.
func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	if !isTerminal(cmd.OutOrStdout()) || !isTerminal(cmd.InOrStdin()) {
		return withApp(cmd, flags, func(a *app) error {
			return printStatus(cmd.OutOrStdout(), a.session)
		})
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, cleanup, err := openApp(ctx, flags, cmd.ErrOrStderr(), openOptions{logToFile: true, reminders: true})
	if err != nil {
		return err
	}
	defer cleanup()

	go a.session.RunDecay(ctx, a.cfg.Routine.DecayInterval)

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, addr, a.logger); err != nil {
				a.logger.Warn("Metrics server stopped", slog.String("addr", addr), slog.Any("error", err))
			}
		}()
	}

	var reload <-chan struct{}
	if a.cfg.Storage.Watch {
		if path := storage.WatchPath(a.store, a.storeOpts, a.session.Key()); path != "" {
			ch, err := storage.Watch(ctx, path, storage.DefaultWatchDebounce, a.logger)
			if err != nil {
				a.logger.Warn("Store watch disabled", slog.String("path", path), slog.Any("error", err))
			} else {
				reload = ch
			}
		}
	}

	model := update.NewModel(ctx, update.Deps{
		Session:   a.session,
		Flavor:    a.flavor,
		Scheduler: a.scheduler,
		Reload:    reload,
		Logger:    a.logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
