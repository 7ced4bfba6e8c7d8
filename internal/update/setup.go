package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/petd/internal/views"
)

func (m Model) handleSetupKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.nameInput.Focused() && !m.breedInput.Focused() {
		m.nameInput.Focus()
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		if m.Setup.Focus == 0 {
			m.Setup.Focus = 1
			m.nameInput.Blur()
			return m, m.breedInput.Focus()
		}
		m.Setup.Focus = 0
		m.breedInput.Blur()
		return m, m.nameInput.Focus()
	case "enter":
		name := m.nameInput.Value()
		if err := m.sess.SetupPet(m.ctx, name, m.breedInput.Value(), nil); err != nil {
			m.Setup.Err = err.Error()
			return m, nil
		}
		m.Setup = SetupState{}
		m.nameInput.SetValue("")
		m.breedInput.SetValue("")
		m.nameInput.Blur()
		m.breedInput.Blur()
		m.Cursor = 0
		m.Status = StatusBar{Text: fmt.Sprintf("welcome, %s!", m.sess.Snapshot().Pet.Name)}
		return m.requestTip()
	}

	var cmd tea.Cmd
	if m.Setup.Focus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.breedInput, cmd = m.breedInput.Update(msg)
	}
	m.Setup.Err = ""
	return m, cmd
}

func (m *Model) beginSetup() {
	m.Setup = SetupState{}
	m.Cursor = 0
	m.Report = ReportState{}
	m.Flavor = FlavorState{Seq: m.Flavor.Seq + 1}
	m.breedInput.Blur()
	m.nameInput.Focus()
}

func (m Model) renderSetupView() string {
	return views.RenderSetupPanel(views.SetupPanelData{
		NameView:  m.nameInput.View(),
		BreedView: m.breedInput.View(),
		Error:     m.Setup.Err,
	})
}
