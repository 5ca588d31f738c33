package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model for the analysis progress display.
type Model struct {
	tasks          []Task
	spinner        spinner.Model
	progress       progress.Model
	events         <-chan Event
	keyword        string
	username       string
	done           bool
	canceled       bool
	rateLimited    bool
	rateLimitReset time.Time
	now            func() time.Time
}

// doneMsg signals that the event channel was closed.
type doneMsg struct{}

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithTasks sets the tasks to display in the TUI.
func WithTasks(tasks []Task) ModelOption {
	return func(m *Model) {
		m.tasks = tasks
	}
}

// WithKeyword shows the searched keyword in the search task.
func WithKeyword(keyword string) ModelOption {
	return func(m *Model) {
		m.keyword = keyword
	}
}

// WithClock sets the clock used for the rate limit countdown.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// DefaultTasks returns the task list for the analyze command.
func DefaultTasks() []Task {
	return []Task{
		NewTask(TaskAuth, "Authenticating"),
		NewTask(TaskSearch, "Searching repositories"),
		NewTask(TaskAnalyze, "Analyzing repositories"),
		NewTask(TaskReport, "Building report"),
	}
}

// NewModel creates a new TUI model.
func NewModel(events <-chan Event, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	p := progress.New(
		progress.WithScaledGradient("#60a5fa", "#1e3a8a"),
		progress.WithWidth(25),
		progress.WithoutPercentage(),
	)

	m := Model{
		tasks:    DefaultTasks(),
		spinner:  s,
		progress: p,
		events:   events,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Canceled reports whether the user quit before the work finished.
func (m Model) Canceled() bool {
	return m.canceled
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.events),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.canceled = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case TaskEvent:
		var cmd tea.Cmd
		m, cmd = m.updateTask(msg)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case RateLimitEvent:
		m.rateLimited = msg.Limited
		m.rateLimitReset = msg.ResetAt
		return m, waitForEvent(m.events)

	case DoneEvent, doneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// updateTask updates a task based on a TaskEvent.
func (m Model) updateTask(e TaskEvent) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for i := range m.tasks {
		if m.tasks[i].ID != e.Task {
			continue
		}
		m.tasks[i].Status = e.Status
		if e.Message != "" {
			m.tasks[i].Message = e.Message
		}
		if e.Count > 0 {
			m.tasks[i].Count = e.Count
		}
		if e.Progress > 0 {
			m.tasks[i].Progress = e.Progress
			cmd = m.progress.SetPercent(e.Progress)
		}
		if e.Error != nil {
			m.tasks[i].Error = e.Error
		}
		// The auth task reports the login as its completion message.
		if e.Task == TaskAuth && e.Status == StatusComplete && e.Message != "" {
			m.username = e.Message
		}
		// Progress resumes once requests flow again.
		if e.Task == TaskAnalyze {
			m.rateLimited = false
		}
		break
	}
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	var s string

	for _, task := range m.tasks {
		switch {
		case task.ID == TaskAuth && task.Status == StatusComplete && m.username != "":
			s += fmt.Sprintf("  %s Authenticated as %s\n", iconComplete, highlightStyle.Render(m.username))
		case task.ID == TaskSearch && m.keyword != "" && task.Status != StatusPending:
			task.Name = fmt.Sprintf("Searching %s", highlightStyle.Render(m.keyword))
			s += task.View(m.spinner.View(), m.progress) + "\n"
		default:
			s += task.View(m.spinner.View(), m.progress) + "\n"
		}
	}

	if m.rateLimited {
		if wait := m.rateLimitReset.Sub(m.now()).Round(time.Second); wait > 0 {
			s += warnStyle.Render(fmt.Sprintf("\n  Rate limited - waiting for reset (resumes in %s)\n", wait))
		}
	}

	// Only show cancel hint while running
	if !m.done {
		s += footerStyle.Render("\n  Press Ctrl+C to cancel")
	}
	s += "\n"

	return s
}

// waitForEvent creates a command that waits for the next event.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return event
	}
}
