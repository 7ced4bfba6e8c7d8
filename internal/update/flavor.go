package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/petd/internal/routine"
	"github.com/sandeepkv93/petd/internal/views"
)

const (
	flavorTip      = "tip"
	flavorReaction = "reaction"
	flavorReport   = "report"
)

func (m Model) requestReaction(r routine.Reward) (Model, tea.Cmd) {
	state := m.sess.Snapshot()
	if state.Pet == nil {
		return m, nil
	}
	pet := *state.Pet
	svc, ctx := m.flavors, m.ctx
	m.Flavor.Seq++
	seq := m.Flavor.Seq
	m.Flavor.Kind = flavorReaction
	m.Flavor.Loading = true
	return m, tea.Batch(func() tea.Msg {
		return FlavorMsg{Seq: seq, Kind: flavorReaction, Result: svc.Reaction(ctx, pet, r.Label, r.Happiness)}
	}, m.spinner.Tick)
}

func (m Model) requestTip() (Model, tea.Cmd) {
	state := m.sess.Snapshot()
	if state.Pet == nil {
		return m, nil
	}
	pet := *state.Pet
	svc, ctx := m.flavors, m.ctx
	m.Flavor.Seq++
	seq := m.Flavor.Seq
	m.Flavor.Kind = flavorTip
	m.Flavor.Loading = true
	return m, tea.Batch(func() tea.Msg {
		return FlavorMsg{Seq: seq, Kind: flavorTip, Result: svc.DailyTip(ctx, pet)}
	}, m.spinner.Tick)
}

func (m Model) requestReport(notes string) (Model, tea.Cmd) {
	rc, err := m.sess.ReportContext(m.ctx, notes)
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("report unavailable: %v", err), IsError: true}
		return m, nil
	}
	svc, ctx := m.flavors, m.ctx
	m.Flavor.Seq++
	seq := m.Flavor.Seq
	m.Flavor.Loading = false
	m.Report = ReportState{Visible: true, Loading: true}
	m.reportView.SetContent("")
	return m, tea.Batch(func() tea.Msg {
		return FlavorMsg{Seq: seq, Kind: flavorReport, Result: svc.DayReport(ctx, rc)}
	}, m.spinner.Tick)
}

// applyFlavor stores a generation result unless a newer request superseded it.
func (m Model) applyFlavor(msg FlavorMsg) Model {
	if msg.Seq != m.Flavor.Seq {
		return m
	}
	if msg.Kind == flavorReport {
		if !m.Report.Visible {
			return m
		}
		m.Report.Loading = false
		m.Report.Markdown = msg.Result.Text
		m.reportView.SetContent(views.RenderMarkdown(msg.Result.Text, m.reportView.Width))
		m.reportView.GotoTop()
		return m
	}
	m.Flavor.Loading = false
	m.Flavor.Kind = msg.Kind
	m.Flavor.Text = msg.Result.Text
	m.Flavor.Fallback = msg.Result.Fallback
	return m
}

func (m Model) handleReportKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", m.Keys.Report, m.Keys.Quit:
		m.Report = ReportState{}
		if m.Flavor.Kind == flavorReport {
			m.Flavor.Kind = ""
		}
		m.Status = StatusBar{Text: "report closed"}
		return m, nil
	}
	var cmd tea.Cmd
	m.reportView, cmd = m.reportView.Update(msg)
	return m, cmd
}
