package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/petd/internal/routine"
)

func newDoneCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Complete a task from today's routine",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("task id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToLower(strings.TrimSpace(args[0]))
			return withApp(cmd, flags, func(a *app) error {
				if _, known := a.session.Catalog().Lookup(id); !known {
					return fmt.Errorf("unknown task %q (see `petd catalog`)", id)
				}
				reward, ok := a.session.CompleteTask(cmd.Context(), id)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(fmt.Sprintf("%s is already done today", id)))
					return nil
				}
				printReward(cmd.OutOrStdout(), reward)
				return nil
			})
		},
	}
}

func newDoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "do <action-id>",
		Short: "Log a quick care action such as pet, walk or play",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("action id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToLower(strings.TrimSpace(args[0]))
			return withApp(cmd, flags, func(a *app) error {
				reward, ok := a.session.LogAction(cmd.Context(), id)
				if !ok {
					return fmt.Errorf("unknown action %q (see `petd catalog`)", id)
				}
				printReward(cmd.OutOrStdout(), reward)
				return nil
			})
		},
	}
}

func printReward(w io.Writer, r routine.Reward) {
	fmt.Fprintln(w, goodStyle.Render(fmt.Sprintf("%s %s +%d pts", r.Emoji, r.Label, r.Points)))
	fmt.Fprintf(w, "happiness %d (+%d)  total points %d\n", r.Happiness, r.HappinessGain, r.TotalPoints)
	if r.Celebrate {
		fmt.Fprintln(w, goodStyle.Render("Every task done today! 🎉"))
	}
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase the pet, progress and history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset erases everything; rerun with --yes to confirm")
			}
			return withApp(cmd, flags, func(a *app) error {
				a.session.Reset(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "All progress erased.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newCatalogCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List routine tasks and quick actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				w := cmd.OutOrStdout()
				tasks := newTable("ID", "Time", "Task", "Points")
				for _, t := range a.session.Catalog().Tasks() {
					tasks.Row(t.ID, t.ScheduledAt.String(), strings.TrimSpace(t.Emoji+" "+t.Label), strconv.Itoa(t.Points))
				}
				fmt.Fprintln(w, titleStyle.Render("Routine"))
				fmt.Fprintln(w, tasks.Render())

				actions := newTable("#", "ID", "Action", "Points")
				for i, act := range a.session.Actions().Actions() {
					actions.Row(strconv.Itoa(i+1), act.ID, strings.TrimSpace(act.Emoji+" "+act.Label), strconv.Itoa(act.Points))
				}
				fmt.Fprintln(w, titleStyle.Render("Quick actions"))
				fmt.Fprintln(w, actions.Render())
				return nil
			})
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List closed days, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				w := cmd.OutOrStdout()
				days, err := a.session.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(days) == 0 {
					fmt.Fprintln(w, mutedStyle.Render("No closed days yet."))
					return nil
				}
				t := newTable("Day", "Done", "Points", "Happiness")
				for _, d := range days {
					t.Row(d.Day.String(), fmt.Sprintf("%d/%d", len(d.CompletedTaskIDs), d.CatalogSize),
						strconv.Itoa(d.PointsEarned), strconv.Itoa(d.Happiness))
				}
				fmt.Fprintln(w, t.Render())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 14, "maximum number of days")
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...)
}
