package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/petd/internal/model"
	"github.com/sandeepkv93/petd/internal/session"
)

func newStatusCmd(flags *rootFlags) *cobra.Command {
	var recent int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the pet, today's routine and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(a *app) error {
				if err := printStatus(cmd.OutOrStdout(), a.session); err != nil {
					return err
				}
				return printRecent(cmd.OutOrStdout(), a.session.Recent(recent))
			})
		},
	}
	cmd.Flags().IntVar(&recent, "recent", 5, "number of timeline entries to show")
	return cmd
}

func printStatus(w io.Writer, sess *session.Session) error {
	state := sess.Snapshot()
	mood := sess.Mood()

	if state.HasPet() {
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render(state.Pet.Name), mutedStyle.Render("("+state.Pet.BreedOrUnknown()+")"))
	} else {
		fmt.Fprintln(w, warnStyle.Render("No pet yet. Run `petd pet setup --name <name>` to get started."))
	}
	fmt.Fprintf(w, "%s %s  happiness %d/%d  streak %d  points %d\n",
		mood.Emoji, mood.Label, state.Happiness, model.MaxHappiness, state.StreakDays, state.TotalPoints)

	statuses := sess.Statuses()
	done := 0
	for _, tv := range statuses {
		if tv.Status == model.TaskStatusDone {
			done++
		}
	}
	fmt.Fprintf(w, "\n%s %s\n", titleStyle.Render("Routine"), mutedStyle.Render(fmt.Sprintf("%d/%d done", done, len(statuses))))
	for _, tv := range statuses {
		fmt.Fprintln(w, taskLine(tv.Task, tv.Status))
	}
	if sess.AllDone() {
		fmt.Fprintln(w, goodStyle.Render("Every task done today! 🎉"))
	}
	return nil
}

func taskLine(task model.Task, status model.TaskStatus) string {
	mark, style := "[ ]", mutedStyle
	switch status {
	case model.TaskStatusDone:
		mark, style = "[x]", goodStyle
	case model.TaskStatusLate:
		mark, style = "[!]", badStyle
	}
	line := fmt.Sprintf("  %s %s %s %-20s +%d  %s", mark, task.ScheduledAt, task.Emoji, task.Label, task.Points, task.ID)
	if status == model.TaskStatusLate {
		line += "  LATE"
	}
	return style.Render(line)
}

func printRecent(w io.Writer, entries []model.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Recent"))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s %s %s +%d\n", e.TimeLabel(), e.Emoji, e.Label, e.Points)
	}
	return nil
}
