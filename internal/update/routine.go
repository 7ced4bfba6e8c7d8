package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/petd/internal/routine"
)

func (m Model) completeSelected() (Model, tea.Cmd) {
	tasks := m.sess.Catalog().Tasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return m, nil
	}
	task := tasks[m.Cursor]
	reward, ok := m.sess.CompleteTask(m.ctx, task.ID)
	if !ok {
		m.Status = StatusBar{Text: fmt.Sprintf("%s is already done", task.Label)}
		return m, nil
	}
	m.Status = StatusBar{Text: rewardText(reward)}
	if m.Cursor < len(tasks)-1 {
		m.Cursor++
	}
	return m.requestReaction(reward)
}

func (m Model) logQuickAction(index int) (Model, tea.Cmd) {
	actions := m.sess.Actions().Actions()
	if index < 0 || index >= len(actions) {
		return m, nil
	}
	reward, ok := m.sess.LogAction(m.ctx, actions[index].ID)
	if !ok {
		return m, nil
	}
	m.Status = StatusBar{Text: rewardText(reward)}
	return m.requestReaction(reward)
}

func rewardText(r routine.Reward) string {
	text := fmt.Sprintf("%s %s +%d pts, happiness %d%% (+%d)", r.Emoji, r.Label, r.Points, r.Happiness, r.HappinessGain)
	if r.Celebrate {
		text += " | every task done today! 🎉"
	}
	return text
}
