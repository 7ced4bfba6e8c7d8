package update

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/petd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{clockTickCmd()}
	if m.sched != nil {
		cmds = append(cmds, waitForReminderCmd(m.sched.C()))
	}
	if m.reload != nil {
		cmds = append(cmds, waitForReloadCmd(m.reload))
	}
	if m.needsSetup() {
		cmds = append(cmds, m.nameInput.Focus())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.reportView.Width = max(typed.Width-4, 20)
		m.reportView.Height = max(typed.Height-10, 5)
		return m, nil
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.needsSetup() {
			return m.handleSetupKey(typed)
		}
		if m.Palette.Active {
			if keyStr == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}
		if m.Report.Visible {
			return m.handleReportKey(typed)
		}

		switch keyStr {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, m.commandInput.Focus()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
			return m, nil
		case "down", "j":
			if m.Cursor < m.sess.Catalog().Len()-1 {
				m.Cursor++
			}
			return m, nil
		case m.Keys.Complete, " ":
			return m.completeSelected()
		case m.Keys.Tip:
			return m.requestTip()
		case m.Keys.Report:
			return m.requestReport("")
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n, _ := strconv.Atoi(keyStr)
			return m.logQuickAction(n - 1)
		}
	case spinner.TickMsg:
		if m.Flavor.Loading || m.Report.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(typed)
			return m, cmd
		}
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case FlavorMsg:
		return m.applyFlavor(typed), nil
	case ReminderDueMsg:
		m.applyReminder(typed.Reminder)
		if m.sched != nil {
			return m, waitForReminderCmd(m.sched.C())
		}
		return m, nil
	case StoreChangedMsg:
		m.reloadFromStore()
		return m, waitForReloadCmd(m.reload)
	case ClockTickMsg:
		if res := m.sess.CheckRollover(m.ctx); res.Changed {
			m.Cursor = 0
			m.Status = StatusBar{Text: fmt.Sprintf("new day: streak is %d", res.StreakAfter)}
		}
		return m, clockTickCmd()
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	now := m.sess.Now()
	header := fmt.Sprintf("petd | %s | %s", now.Format("Mon 2 Jan"), now.Format("15:04"))

	if m.needsSetup() {
		return views.RenderApp(views.AppData{
			Header:      header,
			LeftPane:    m.renderSetupView(),
			StatusLine:  status,
			StatusError: m.Status.IsError,
		})
	}

	left := m.renderRoutineView()
	right := m.renderPetView()
	if m.Report.Visible {
		left = m.renderReportView()
		right = ""
	}
	right = joinSections(right, m.renderCommandPalette(), m.renderHelpIfVisible())

	return views.RenderApp(views.AppData{
		Header:       header,
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer:       fmt.Sprintf("keys: j/k move | %s done | 1-%d actions | %s tip | %s report | %s cmd | %s help | %s quit", m.Keys.Complete, m.sess.Actions().Len(), m.Keys.Tip, m.Keys.Report, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(clockTickInterval, func(t time.Time) tea.Msg { return ClockTickMsg{At: t} })
}

func waitForReloadCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

func (m *Model) reloadFromStore() {
	changed, err := m.sess.ReloadIfChanged(m.ctx)
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("reload failed: %v", err), IsError: true}
		return
	}
	if changed {
		if m.Cursor >= m.sess.Catalog().Len() {
			m.Cursor = 0
		}
		m.Status = StatusBar{Text: "picked up changes from another petd"}
	}
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}
