package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/petd/internal/commands"
	"github.com/sandeepkv93/petd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, name := range commands.Names {
		plain = append(plain, fmt.Sprintf("- /%s %s", name, commandUsage(name)))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func commandUsage(t commands.Type) string {
	switch t {
	case commands.TypeDone:
		return "<task-id>"
	case commands.TypeDo:
		return "<action-id>"
	case commands.TypePet:
		return "<name> [breed]"
	case commands.TypeReport:
		return "[notes]"
	case commands.TypeReset:
		return "confirm"
	default:
		return ""
	}
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: "j/k", Action: "move"},
		{Key: m.Keys.Complete, Action: "complete task"},
		{Key: fmt.Sprintf("1-%d", m.sess.Actions().Len()), Action: "quick action"},
		{Key: m.Keys.Tip, Action: "care tip"},
		{Key: m.Keys.Report, Action: "day report"},
		{Key: m.Keys.Palette, Action: "command palette"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
