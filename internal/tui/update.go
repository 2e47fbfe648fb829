package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/cli/settings"
	"github.com/julianstephens/steplog/internal/logger"
)

const tabCount = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateEditGoal {
		return m.updateGoalForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case refreshTickMsg:
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			if err := m.tracker.Save(m.ctx.Ctx()); err != nil {
				logger.Error("Failed to save steps on exit", "error", err)
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Refresh):
			m.banner = ""
			m.refresh()
		case key.Matches(msg, m.keys.AddSteps):
			m.addSteps(manualStepIncrement)
		case key.Matches(msg, m.keys.Goal):
			return m, m.openGoalForm()
		case m.state == StateHistory:
			var cmd tea.Cmd
			m.historyModel, cmd = m.historyModel.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		if m.state == StateHistory {
			var cmd tea.Cmd
			m.historyModel, cmd = m.historyModel.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// updateGoalForm drives the huh goal editor until it completes or is
// cancelled with esc.
func (m Model) updateGoalForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateToday
		goal, err := settings.ParseGoal(*m.goalInput)
		if err != nil {
			m.status = "⚠ " + err.Error()
			return m, cmd
		}
		if err := m.ctx.Goals.Set(m.ctx.Ctx(), goal); err != nil {
			m.status = "⚠ Failed to update goal"
			return m, cmd
		}
		// Reload so the tracker picks up the new goal, then rewrite today's
		// record and streak against it.
		if err := m.tracker.Start(m.ctx.Ctx()); err != nil {
			logger.Warn("Failed to reload today's steps", "error", err)
		}
		if err := m.tracker.Save(m.ctx.Ctx()); err != nil {
			logger.Error("Failed to save today's record", "error", err)
		}
		if _, err := m.ctx.Garden.UpdateStreak(m.ctx.Ctx()); err != nil {
			logger.Error("Failed to update streak", "error", err)
		}
		m.refresh()
		m.status = "✓ Daily goal set to " + cli.FormatSteps(goal) + " steps"
	case huh.StateAborted:
		m.state = StateToday
	}
	return m, cmd
}
