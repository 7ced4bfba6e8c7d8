package views

import (
	"strings"
	"testing"
)

func TestRenderRoutinePanelMarksCursorAndStatus(t *testing.T) {
	out := RenderRoutinePanel(RoutinePanelData{
		Rows: []TaskRowData{
			{ID: "pee1", Time: "08:30", Emoji: "🚽", Label: "First potty break", Points: 10, Status: "Done"},
			{ID: "breakfast", Time: "10:00", Emoji: "🍳", Label: "Breakfast", Points: 15, Status: "Late"},
			{ID: "lunch", Time: "12:00", Emoji: "🍖", Label: "Lunch", Points: 15, Status: "Pending"},
		},
		Cursor: 1,
	})
	if !strings.Contains(out, "> 10:00") {
		t.Fatalf("cursor not rendered on second row:\n%s", out)
	}
	if !strings.Contains(out, "[DONE]") || !strings.Contains(out, "[LATE]") {
		t.Fatalf("status badges missing:\n%s", out)
	}
}

func TestRenderFlavorPanel(t *testing.T) {
	if got := RenderFlavorPanel(FlavorPanelData{Title: "tip"}); got != "" {
		t.Fatalf("empty flavor should render nothing, got %q", got)
	}
	got := RenderFlavorPanel(FlavorPanelData{Title: "tip", Loading: true, Spinner: "*"})
	if !strings.Contains(got, "thinking") {
		t.Fatalf("expected loading text, got %q", got)
	}
}

func TestRenderAppShowsPanes(t *testing.T) {
	out := RenderApp(AppData{Header: "petd", LeftPane: "left", RightPane: "right", StatusLine: "ok", Footer: "keys"})
	for _, want := range []string{"petd", "left", "right", "ok", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if RenderMarkdown("  ", 40) != "" {
		t.Fatal("blank markdown should render empty")
	}
	if out := RenderMarkdown("## Rex's day", 40); !strings.Contains(out, "Rex") {
		t.Fatalf("unexpected markdown output %q", out)
	}
}
