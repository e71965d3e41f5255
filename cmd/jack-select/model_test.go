package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/jackselect/pkg/engine"
	"github.com/germanamz/jackselect/pkg/status"
)

type fakeEngine struct {
	presets   []engine.PresetEntry
	status    status.Status
	activated []string
	started   int
	stopped   int
	reloads   int
	err       error
}

func (f *fakeEngine) Presets() []engine.PresetEntry { return f.presets }

func (f *fakeEngine) Status() status.Status { return f.status }

func (f *fakeEngine) ActivatePreset(_ context.Context, name string) error {
	f.activated = append(f.activated, name)
	return f.err
}

func (f *fakeEngine) StartServer(context.Context) error {
	f.started++
	return f.err
}

func (f *fakeEngine) StopServer(context.Context) error {
	f.stopped++
	return f.err
}

func (f *fakeEngine) Reload(context.Context, bool) (bool, error) {
	f.reloads++
	return false, f.err
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		presets: []engine.PresetEntry{
			{Name: "live", Selectable: false},
			{Name: "mobile", Selectable: true},
			{Name: "studio", Default: true, Selectable: true},
		},
		status: status.Status{Connected: true},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	require.True(t, ok)
	return am, cmd
}

// findMsg runs cmd, descending into batches, and returns the first message of type T.
func findMsg[T tea.Msg](cmd tea.Cmd) (T, bool) {
	var zero T
	if cmd == nil {
		return zero, false
	}

	switch msg := cmd().(type) {
	case T:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if found, ok := findMsg[T](c); ok {
				return found, true
			}
		}
	}

	return zero, false
}

func TestAppModel_CursorStartsOnDefault(t *testing.T) {
	m := newAppModel(context.Background(), newFakeEngine(), nil)
	assert.Equal(t, 2, m.cursor)
}

func TestAppModel_Navigation(t *testing.T) {
	m := newAppModel(context.Background(), newFakeEngine(), nil)

	m, _ = update(t, m, keyMsg("up"))
	assert.Equal(t, 1, m.cursor)
	m, _ = update(t, m, keyMsg("k"))
	m, _ = update(t, m, keyMsg("k"))
	assert.Equal(t, 0, m.cursor)

	m, _ = update(t, m, keyMsg("j"))
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("down"))
	assert.Equal(t, 2, m.cursor)
}

func TestAppModel_ActivateSelectedPreset(t *testing.T) {
	fe := newFakeEngine()
	m := newAppModel(context.Background(), fe, nil)

	m, cmd := update(t, m, keyMsg("enter"))
	assert.Equal(t, "Activating studio", m.busy)

	done, ok := findMsg[activationDoneMsg](cmd)
	require.True(t, ok)
	assert.Equal(t, []string{"studio"}, fe.activated)

	// Keys other than navigation are ignored while busy.
	_, cmd = update(t, m, keyMsg("s"))
	assert.Nil(t, cmd)
	assert.Zero(t, fe.started)

	m, _ = update(t, m, done)
	assert.Empty(t, m.busy)
	assert.Contains(t, m.View(), `Activated preset "studio".`)
}

func TestAppModel_UnselectablePresetNotActivated(t *testing.T) {
	fe := newFakeEngine()
	m := newAppModel(context.Background(), fe, nil)
	m.cursor = 0

	m, cmd := update(t, m, keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.Empty(t, fe.activated)
	assert.Contains(t, m.notice, "not connected")
}

func TestAppModel_ActivationError(t *testing.T) {
	fe := newFakeEngine()
	m := newAppModel(context.Background(), fe, nil)

	m, _ = update(t, m, activationDoneMsg{name: "studio", err: errors.New("engine: activation in progress")})
	assert.Contains(t, m.View(), "error: engine: activation in progress")
}

func TestAppModel_StartStopReload(t *testing.T) {
	fe := newFakeEngine()
	m := newAppModel(context.Background(), fe, nil)

	m, cmd := update(t, m, keyMsg("s"))
	done, ok := findMsg[serverDoneMsg](cmd)
	require.True(t, ok)
	assert.True(t, done.start)
	assert.Equal(t, 1, fe.started)
	m, _ = update(t, m, done)

	m, cmd = update(t, m, keyMsg("x"))
	stopDone, ok := findMsg[serverDoneMsg](cmd)
	require.True(t, ok)
	assert.False(t, stopDone.start)
	assert.Equal(t, 1, fe.stopped)
	m, _ = update(t, m, stopDone)

	_, cmd = update(t, m, keyMsg("r"))
	_, ok = findMsg[reloadDoneMsg](cmd)
	require.True(t, ok)
	assert.Equal(t, 1, fe.reloads)
}

func TestAppModel_PresetsChangedKeepsCursor(t *testing.T) {
	fe := newFakeEngine()
	m := newAppModel(context.Background(), fe, nil)
	m.cursor = 1 // mobile

	fe.presets = append([]engine.PresetEntry{{Name: "alpha", Selectable: true}}, fe.presets...)
	m, _ = update(t, m, presetsChangedMsg{})

	assert.Equal(t, "mobile", m.presets[m.cursor].Name)
}

func TestAppModel_View(t *testing.T) {
	fe := newFakeEngine()
	fe.status = status.Status{Connected: true, Known: true}
	m := newAppModel(context.Background(), fe, nil)
	m, _ = update(t, m, statusMsg{status: fe.status})

	view := m.View()
	assert.Contains(t, view, "JACK-Select")
	assert.Contains(t, view, "live")
	assert.Contains(t, view, "studio")
	assert.Contains(t, view, "*")
	assert.Contains(t, view, status.TextStopped)
}

func TestAppModel_ViewNoPresets(t *testing.T) {
	fe := newFakeEngine()
	fe.presets = nil
	m := newAppModel(context.Background(), fe, nil)

	assert.Contains(t, m.View(), "No presets found.")

	_, cmd := update(t, m, keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestAppModel_Quit(t *testing.T) {
	m := newAppModel(context.Background(), newFakeEngine(), nil)

	_, cmd := update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestEventMsg(t *testing.T) {
	st := status.Status{Connected: true, Known: true, Started: true}

	assert.Equal(t, statusMsg{status: st}, eventMsg(engine.Event{Kind: engine.EventStatusChanged, Data: st}))
	assert.Equal(t, presetsChangedMsg{}, eventMsg(engine.Event{Kind: engine.EventPresetsChanged}))

	boom := errors.New("boom")
	assert.Equal(t, engineErrorMsg{err: boom}, eventMsg(engine.Event{Kind: engine.EventError, Data: boom}))

	assert.Nil(t, eventMsg(engine.Event{Kind: engine.EventServerStarted}))
	assert.Nil(t, eventMsg(engine.Event{Kind: engine.EventStatusChanged, Data: "not a status"}))
}

func TestStatusBar_View(t *testing.T) {
	bar := newStatusBar(status.Status{Connected: true, Known: true, Started: true, Bridge: true})
	assert.Contains(t, bar.View(), "a2j bridge running")

	bar = newStatusBar(status.Status{})
	assert.Contains(t, bar.View(), status.TextNoConnection)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	err := dispatch(context.Background(), options{}, []string{"bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "bogus"`)
}

func TestDispatch_MissingPresetName(t *testing.T) {
	err := dispatch(context.Background(), options{}, []string{"activate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activate: expected exactly one preset name")
}
