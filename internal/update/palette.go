package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/petd/internal/commands"
	"github.com/sandeepkv93/petd/internal/routine"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			reward, ok := m.sess.CompleteTask(m.ctx, a.TaskID)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown or already done task: %s", a.TaskID)}
			}
			m, next = m.requestReaction(reward)
			return commands.Result{Message: rewardText(reward)}, nil
		},
		Do: func(a commands.DoArgs) (commands.Result, error) {
			reward, ok := m.sess.LogAction(m.ctx, a.ActionID)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown action: %s", a.ActionID)}
			}
			m, next = m.requestReaction(reward)
			return commands.Result{Message: rewardText(reward)}, nil
		},
		Pet: func(a commands.PetArgs) (commands.Result, error) {
			err := m.sess.EditPet(m.ctx, a.Name, a.Breed)
			if errors.Is(err, routine.ErrNoPet) {
				err = m.sess.SetupPet(m.ctx, a.Name, a.Breed, nil)
			}
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("pet updated: %s", a.Name)}, nil
		},
		Tip: func() (commands.Result, error) {
			m, next = m.requestTip()
			return commands.Result{Message: "fetching a care tip"}, nil
		},
		Report: func(a commands.ReportArgs) (commands.Result, error) {
			m, next = m.requestReport(a.Notes)
			if !m.Report.Visible {
				return commands.Result{}, errors.New(m.Status.Text)
			}
			return commands.Result{Message: "building today's report"}, nil
		},
		Reset: func() (commands.Result, error) {
			m.sess.Reset(m.ctx)
			m.beginSetup()
			return commands.Result{Message: "everything was reset"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, next
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m, next
}
