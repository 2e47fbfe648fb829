package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/cli/settings"
	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/garden"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/tracker"
	"github.com/julianstephens/steplog/internal/tui/components/history"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHistory
	StateGarden
	StateEditGoal
)

var tabTitles = []string{"Today", "History", "Garden"}

const (
	manualStepIncrement = 100
	refreshInterval     = time.Minute
	activityLogLimit    = 30
)

type refreshTickMsg time.Time

type Model struct {
	ctx     *cli.Context
	tracker *tracker.Tracker

	state        SessionState
	keys         KeyMap
	help         help.Model
	progress     progress.Model
	historyModel history.Model
	form         *huh.Form
	goalInput    *string

	today    tracker.State
	garden   models.GardenSnapshot
	banner   string
	status   string
	quitting bool
	width    int
	height   int
}

func NewModel(ctx *cli.Context) Model {
	t := ctx.NewTracker()
	if err := t.Start(ctx.Ctx()); err != nil {
		logger.Warn("Dashboard starting with an unreadable day record", "error", err)
	}

	m := Model{
		ctx:          ctx,
		tracker:      t,
		state:        StateToday,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		progress:     progress.New(progress.WithDefaultGradient()),
		historyModel: history.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// refresh reloads every view from the store. A growth transition, if any,
// becomes the banner; otherwise the current banner is kept.
func (m *Model) refresh() {
	bg := m.ctx.Ctx()
	m.status = ""

	if err := m.tracker.Rollover(bg); err != nil {
		logger.Warn("Rollover failed", "error", err)
	}
	m.today = m.tracker.State()

	week, err := m.ctx.Days.GetLastNDays(bg, constants.WeekDays)
	if err != nil {
		m.status = "⚠ Some days could not be read"
	}
	log, err := m.ctx.Days.GetHistoricalData(bg, activityLogLimit)
	if err != nil {
		m.status = "⚠ History unavailable"
	}
	m.historyModel.SetData(m.today.Date, week, log)

	snap, err := m.ctx.Garden.Snapshot(bg)
	if err != nil && !garden.IsIncomplete(err) {
		m.status = "⚠ Garden data could not be read"
	}
	m.garden = snap
	if t := snap.Transition; t != nil && t.ShouldAnimate {
		m.banner = fmt.Sprintf("✨ Your plant grew from %s to %s!", t.PreviousStage, t.CurrentStage)
	}
}

// addSteps records a manual entry and reloads the views.
func (m *Model) addSteps(n int) {
	before := m.tracker.State()
	if err := m.tracker.Add(m.ctx.Ctx(), n); err != nil {
		m.status = "⚠ Failed to save steps"
		return
	}
	m.refresh()
	if m.today.GoalReached && !before.GoalReached {
		m.status = "🎉 " + tracker.GoalReachedMessage
	}
}

func (m *Model) openGoalForm() tea.Cmd {
	input := fmt.Sprintf("%d", m.today.Goal)
	m.goalInput = &input
	m.form = settings.GoalForm(m.goalInput)
	m.state = StateEditGoal
	return m.form.Init()
}

func (m *Model) resize() {
	m.help.Width = m.width
	m.progress.Width = max(m.width-8, 10)
	m.historyModel.SetSize(max(m.width-4, 0), max(m.height-6, 0))
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}
