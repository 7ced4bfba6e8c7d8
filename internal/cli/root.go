// Package cli is the petd command tree: the TUI by default, plus scriptable subcommands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type rootFlags struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the petd command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "petd",
		Short:         "Daily care routine and happiness tracker for your dog",
		Long:          "petd tracks your dog's daily routine, rewards completed care tasks with points and happiness, and keeps a streak of fully completed days.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/petd/config.yaml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newStatusCmd(flags),
		newDoneCmd(flags),
		newDoCmd(flags),
		newPetCmd(flags),
		newResetCmd(flags),
		newTipCmd(flags),
		newReportCmd(flags),
		newPortraitCmd(flags),
		newCatalogCmd(flags),
		newHistoryCmd(flags),
		newConfigCmd(flags),
	)
	return cmd
}

// Execute runs petd with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, badStyle.Render("petd: "+err.Error()))
		return 1
	}
	return 0
}

// withApp opens the app for one command and always runs cleanup, flushing pending writes.
func withApp(cmd *cobra.Command, flags *rootFlags, fn func(a *app) error) error {
	a, cleanup, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), openOptions{})
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(a)
}
