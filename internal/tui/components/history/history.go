// Package history renders the week chart and the activity log in a
// scrollable viewport.
package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/metrics"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/utils"
)

const chartWidth = 24

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	metStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))
)

type Model struct {
	viewport viewport.Model
	today    string
	week     []models.DayRecord
	log      []models.DayRecord
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetData replaces the chart (oldest first) and the log (newest first).
func (m *Model) SetData(today string, week, log []models.DayRecord) {
	m.today = today
	m.week = week
	m.log = log
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(Content(m.today, m.week, m.log))
}

// Content builds the text shown in the viewport.
func Content(today string, week, log []models.DayRecord) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Last 7 days"))
	b.WriteString("\n\n")
	scale := cli.ChartScale(week)
	for _, d := range week {
		label := utils.DayOfWeek(d.Date)
		if d.Date == today {
			label = "Today"
		}
		mark := " "
		if d.GoalReached {
			mark = metStyle.Render("✓")
		}
		fmt.Fprintf(&b, "%-5s %s %8s %s\n", label, barStyle.Render(cli.Bar(d.Steps, scale, chartWidth)), cli.FormatSteps(d.Steps), mark)
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Activity log"))
	b.WriteString("\n\n")
	if len(log) == 0 {
		b.WriteString("No activity recorded yet.\n")
		return b.String()
	}
	for _, d := range log {
		line := fmt.Sprintf("%s steps · %d%% of goal · %s · %d cal",
			cli.FormatSteps(d.Steps), metrics.GoalPercent(d.Steps, d.Goal), cli.FormatDistance(d.Distance), d.Calories)
		if d.GoalReached {
			line += " " + metStyle.Render("✓")
		}
		fmt.Fprintf(&b, "%s %s\n", dateStyle.Render(utils.FormatDate(d.Date, today)), line)
	}
	return b.String()
}
