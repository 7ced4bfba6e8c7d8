package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	ID     string
	Time   string
	Emoji  string
	Label  string
	Points int
	Status string
}

type RoutinePanelData struct {
	Rows     []TaskRowData
	Cursor   int
	AllDone  bool
	DoneText string
}

type MoodPanelData struct {
	PetName     string
	Breed       string
	PhotoLabel  string
	MoodEmoji   string
	MoodLabel   string
	Happiness   int
	MeterView   string
	Streak      int
	TotalPoints int
}

type TimelineEntryData struct {
	Time   string
	Emoji  string
	Label  string
	Points int
}

type ActionData struct {
	Key    string
	Emoji  string
	Label  string
	Points int
}

type FlavorPanelData struct {
	Title    string
	Text     string
	Loading  bool
	Spinner  string
	Fallback bool
}

type SetupPanelData struct {
	NameView  string
	BreedView string
	Error     string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

func RenderRoutinePanel(data RoutinePanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("today's routine") + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no tasks)")
		return b.String()
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s %s (+%d)", cursor, row.Time, row.Emoji, row.Label, row.Points)
		b.WriteString(styleForStatus(row.Status).Render(line+" "+statusBadge(row.Status)) + "\n")
	}
	if data.AllDone {
		b.WriteString("\n" + doneStyle.Render(data.DoneText))
	}
	return strings.TrimSpace(b.String())
}

func statusBadge(status string) string {
	switch status {
	case "Done":
		return "[DONE]"
	case "Late":
		return "[LATE]"
	default:
		return ""
	}
}

func styleForStatus(status string) lipgloss.Style {
	switch status {
	case "Done":
		return doneStyle
	case "Late":
		return lateStyle
	default:
		return pendingStyle
	}
}

func RenderMoodPanel(data MoodPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s the %s", data.PetName, data.Breed)) + "\n")
	if data.PhotoLabel != "" {
		b.WriteString(mutedStyle.Render(data.PhotoLabel) + "\n")
	}
	b.WriteString(fmt.Sprintf("mood: %s %s (%d%%)\n", data.MoodEmoji, data.MoodLabel, data.Happiness))
	b.WriteString(data.MeterView + "\n")
	b.WriteString(fmt.Sprintf("streak: %d day(s) | points: %d", data.Streak, data.TotalPoints))
	return b.String()
}

func RenderActions(actions []ActionData) string {
	if len(actions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("[%s]%s %s", a.Key, a.Emoji, a.Label))
	}
	return "quick actions:\n" + strings.Join(parts, "  ")
}

func RenderTimeline(entries []TimelineEntryData) string {
	var b strings.Builder
	b.WriteString("activity:\n")
	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("  nothing yet today"))
		return b.String()
	}
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %s %s %s +%d\n", e.Time, e.Emoji, e.Label, e.Points))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderFlavorPanel(data FlavorPanelData) string {
	if data.Loading {
		return fmt.Sprintf("%s:\n%s thinking...", data.Title, data.Spinner)
	}
	if strings.TrimSpace(data.Text) == "" {
		return ""
	}
	text := data.Text
	if data.Fallback {
		text = mutedStyle.Render(text)
	}
	return fmt.Sprintf("%s:\n%s", data.Title, text)
}

func RenderSetupPanel(data SetupPanelData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("meet your pet") + "\n")
	b.WriteString("name:  " + data.NameView + "\n")
	b.WriteString("breed: " + data.BreedView + "\n")
	b.WriteString(mutedStyle.Render("[tab] switch field [enter] save [ctrl+c] quit"))
	if data.Error != "" {
		b.WriteString("\n" + errorStyle.Render(data.Error))
	}
	return b.String()
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s",
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}
