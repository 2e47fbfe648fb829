package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/metrics"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateHistory:
		content = docStyle.Render(m.historyModel.View())
	case StateGarden:
		content = m.viewGarden()
	case StateEditGoal:
		content = docStyle.Render(m.form.View())
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, statusLine(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func statusLine(s string) string {
	if strings.HasPrefix(s, "⚠") {
		return dangerStyle.Render(s)
	}
	return successStyle.Render(s)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	if active == StateEditGoal {
		active = StateToday
	}
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	st := m.today
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s / %s steps", cli.FormatSteps(st.Steps), cli.FormatSteps(st.Goal))))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(metrics.GoalProgress(st.Steps, st.Goal)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %s\n", mutedStyle.Render("Distance"), cli.FormatDistance(metrics.CalculateDistance(st.Steps)))
	fmt.Fprintf(&b, "%s  %d\n", mutedStyle.Render("Calories"), metrics.CalculateCalories(st.Steps))
	fmt.Fprintf(&b, "%s    %d day(s)\n", mutedStyle.Render("Streak"), m.garden.Streak.CurrentStreak)

	if st.GoalReached {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("🎉 Goal reached!"))
	} else {
		fmt.Fprintf(&b, "\n%s steps to go", cli.FormatSteps(st.Goal-st.Steps))
	}
	return docStyle.Render(b.String())
}

func (m Model) viewGarden() string {
	g := m.garden
	var b strings.Builder

	if m.banner != "" {
		b.WriteString(bannerStyle.Render(m.banner))
		b.WriteString("\n\n")
	}

	b.WriteString(plantStyle.Render(strings.Join(cli.PlantArt(g.Stage), "\n")))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(g.Message))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %d day(s)\n", cli.StreakDots(g.Streak.CurrentStreak), g.Streak.CurrentStreak)
	if g.DaysUntilBloom > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d more day(s) until bloom", g.DaysUntilBloom)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(g.Bloomed) == 0 {
		b.WriteString(mutedStyle.Render("Collection is empty"))
	} else {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Collection (%d)", len(g.Bloomed))))
		for _, p := range g.Bloomed {
			fmt.Fprintf(&b, "\n  🌸 %s  %s", p.BloomedDate, mutedStyle.Render(fmt.Sprintf("%d-day streak", p.StreakAchieved)))
		}
	}
	return docStyle.Render(b.String())
}
