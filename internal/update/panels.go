package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/petd/internal/model"
	"github.com/sandeepkv93/petd/internal/views"
)

func (m Model) renderRoutineView() string {
	statuses := m.sess.Statuses()
	rows := make([]views.TaskRowData, 0, len(statuses))
	for _, tv := range statuses {
		rows = append(rows, views.TaskRowData{
			ID:     tv.Task.ID,
			Time:   tv.Task.ScheduledAt.String(),
			Emoji:  tv.Task.Emoji,
			Label:  tv.Task.Label,
			Points: tv.Task.Points,
			Status: string(tv.Status),
		})
	}
	routine := views.RenderRoutinePanel(views.RoutinePanelData{
		Rows:     rows,
		Cursor:   m.Cursor,
		AllDone:  m.sess.AllDone(),
		DoneText: "All done for today. 🎉",
	})

	actions := m.sess.Actions().Actions()
	quick := make([]views.ActionData, 0, len(actions))
	for i, a := range actions {
		if i >= 9 {
			break
		}
		quick = append(quick, views.ActionData{Key: fmt.Sprint(i + 1), Emoji: a.Emoji, Label: a.Label, Points: a.Points})
	}
	return joinSections(routine, views.RenderActions(quick))
}

func (m Model) renderPetView() string {
	state := m.sess.Snapshot()
	mood := model.MoodFor(state.Happiness)
	photo := "photo: default"
	if state.Pet.Photo != nil {
		photo = fmt.Sprintf("photo: %s, %d KiB", state.Pet.Photo.MIMEType, (len(state.Pet.Photo.Data)+1023)/1024)
	}
	pet := views.RenderMoodPanel(views.MoodPanelData{
		PetName:     state.Pet.Name,
		Breed:       state.Pet.BreedOrUnknown(),
		PhotoLabel:  photo,
		MoodEmoji:   mood.Emoji,
		MoodLabel:   mood.Label,
		Happiness:   state.Happiness,
		MeterView:   m.moodMeter.ViewAs(float64(state.Happiness) / float64(model.MaxHappiness)),
		Streak:      state.StreakDays,
		TotalPoints: state.TotalPoints,
	})

	recent := m.sess.Recent(timelineLength)
	entries := make([]views.TimelineEntryData, 0, len(recent))
	for _, e := range recent {
		entries = append(entries, views.TimelineEntryData{Time: e.TimeLabel(), Emoji: e.Emoji, Label: e.Label, Points: e.Points})
	}

	flavorPanel := views.RenderFlavorPanel(views.FlavorPanelData{
		Title:    flavorTitle(m.Flavor.Kind, state.Pet.Name),
		Text:     m.Flavor.Text,
		Loading:  m.Flavor.Loading,
		Spinner:  m.spinner.View(),
		Fallback: m.Flavor.Fallback,
	})
	return joinSections(pet, views.RenderTimeline(entries), flavorPanel)
}

func flavorTitle(kind, name string) string {
	switch kind {
	case flavorTip:
		return "care tip"
	case flavorReaction:
		return name + " says"
	default:
		return kind
	}
}

func (m Model) renderReportView() string {
	if m.Report.Loading {
		return fmt.Sprintf("day report:\n%s writing the report...", m.spinner.View())
	}
	return "day report ([esc] close, j/k scroll):\n" + m.reportView.View()
}

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func joinSections(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
