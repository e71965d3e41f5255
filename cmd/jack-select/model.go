package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/jackselect/pkg/engine"
	"github.com/germanamz/jackselect/pkg/status"
)

// presetEngine is the part of engine.Engine the menu drives.
type presetEngine interface {
	Presets() []engine.PresetEntry
	Status() status.Status
	ActivatePreset(ctx context.Context, name string) error
	StartServer(ctx context.Context) error
	StopServer(ctx context.Context) error
	Reload(ctx context.Context, force bool) (bool, error)
}

// appModel is the root bubbletea model: the preset menu.
type appModel struct {
	ctx          context.Context
	eng          presetEngine
	events       *engine.EventBus
	sub          *engine.Subscription
	cancelBridge context.CancelFunc

	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	statusBar statusBarModel

	presets []engine.PresetEntry
	cursor  int
	busy    string // label of the operation in flight, "" when idle
	notice  string
	err     string
	width   int
}

func newAppModel(ctx context.Context, eng presetEngine, events *engine.EventBus) appModel {
	m := appModel{
		ctx:       ctx,
		eng:       eng,
		events:    events,
		keys:      newKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle)),
		statusBar: newStatusBar(eng.Status()),
	}
	m.setPresets(eng.Presets())

	// Subscribe now so nothing published before the program starts is lost.
	if events != nil {
		m.sub = events.Subscribe(64, engine.EventStatusChanged, engine.EventPresetsChanged, engine.EventError)
	}

	return m
}

// setPresets replaces the list and keeps the cursor on the same name when
// it still exists, otherwise on the default preset.
func (m *appModel) setPresets(presets []engine.PresetEntry) {
	var current string
	if m.cursor < len(m.presets) {
		current = m.presets[m.cursor].Name
	}

	m.presets = presets
	m.cursor = 0

	for i, p := range presets {
		if p.Name == current {
			m.cursor = i
			return
		}
		if p.Default && current == "" {
			m.cursor = i
		}
	}
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case programReadyMsg:
		if m.sub != nil {
			m.cancelBridge = startBridge(m.ctx, msg.program, m.events, m.sub)
		}
		m.statusBar.status = m.eng.Status()
		return m, nil

	case statusMsg:
		m.statusBar.status = msg.status
		return m, nil

	case presetsChangedMsg:
		m.setPresets(m.eng.Presets())
		return m, nil

	case engineErrorMsg:
		m.err = msg.err.Error()
		return m, nil

	case openMenuMsg:
		m.notice = "Menu requested by another process."
		return m, nil

	case activationDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.notice = fmt.Sprintf("Activated preset %q.", msg.name)
		m.statusBar.status = m.eng.Status()
		return m, nil

	case serverDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.err = ""
		}
		m.statusBar.status = m.eng.Status()
		return m, nil

	case reloadDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.err = ""
			m.notice = "Presets reloaded."
		}
		m.setPresets(m.eng.Presets())
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancelBridge != nil {
			m.cancelBridge()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
		return m, nil
	}

	if m.busy != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Activate):
		if len(m.presets) == 0 {
			return m, nil
		}
		p := m.presets[m.cursor]
		if !p.Selectable {
			m.notice = fmt.Sprintf("Preset %q uses a device that is not connected.", p.Name)
			return m, nil
		}
		return m.begin("Activating "+p.Name, activateCmd(m.ctx, m.eng, p.Name))

	case key.Matches(msg, m.keys.Start):
		return m.begin("Starting JACK", serverCmd(m.ctx, m.eng, true))

	case key.Matches(msg, m.keys.Stop):
		return m.begin("Stopping JACK", serverCmd(m.ctx, m.eng, false))

	case key.Matches(msg, m.keys.Reload):
		return m.begin("Reloading presets", reloadCmd(m.ctx, m.eng))
	}

	return m, nil
}

// begin marks an operation as in flight and runs cmd alongside the spinner.
func (m appModel) begin(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = label
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, cmd)
}

func activateCmd(ctx context.Context, eng presetEngine, name string) tea.Cmd {
	return func() tea.Msg {
		return activationDoneMsg{name: name, err: eng.ActivatePreset(ctx, name)}
	}
}

func serverCmd(ctx context.Context, eng presetEngine, start bool) tea.Cmd {
	return func() tea.Msg {
		if start {
			return serverDoneMsg{start: true, err: eng.StartServer(ctx)}
		}
		return serverDoneMsg{err: eng.StopServer(ctx)}
	}
}

func reloadCmd(ctx context.Context, eng presetEngine) tea.Cmd {
	return func() tea.Msg {
		_, err := eng.Reload(ctx, true)
		return reloadDoneMsg{err: err}
	}
}

func (m appModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("JACK-Select"))
	sb.WriteString("\n\n")

	if len(m.presets) == 0 {
		sb.WriteString(dimStyle.Render("  No presets found."))
		sb.WriteString("\n")
	}

	labelWidth := m.width - 6
	if m.width == 0 {
		labelWidth = 60
	}

	for i, p := range m.presets {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		label := truncateLabel(p.Name, labelWidth)
		if p.Selectable {
			sb.WriteString(prefix + label)
		} else {
			sb.WriteString(prefix + unavailableStyle.Render(label))
		}
		if p.Default {
			sb.WriteString(defaultMarkStyle.Render(" *"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.statusBar.View())
	sb.WriteString("\n")

	switch {
	case m.busy != "":
		sb.WriteString(m.spinner.View() + " " + m.busy + "...")
		sb.WriteString("\n")
	case m.err != "":
		sb.WriteString(errorStyle.Render("error: " + m.err))
		sb.WriteString("\n")
	case m.notice != "":
		sb.WriteString(noticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}
