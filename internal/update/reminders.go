package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/petd/internal/model"
)

func waitForReminderCmd(ch <-chan model.Reminder) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Reminder: ev}
	}
}

// applyReminder surfaces a fired reminder unless the task was finished in the meantime.
func (m *Model) applyReminder(r model.Reminder) {
	text, ok := m.sess.DescribeReminder(r)
	if !ok {
		return
	}
	level := "info"
	if r.Kind == model.ReminderKindLate {
		level = "warn"
	}
	m.Status = StatusBar{Text: text}
	m.notify("Reminder", text, level)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}
