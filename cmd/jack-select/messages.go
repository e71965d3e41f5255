package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/jackselect/pkg/status"
)

// programReadyMsg passes the *tea.Program to the model so it can start bridge goroutines.
type programReadyMsg struct {
	program *tea.Program
}

// statusMsg delivers a new live status from the bridge goroutine.
type statusMsg struct {
	status status.Status
}

// presetsChangedMsg asks the model to re-read the preset list.
type presetsChangedMsg struct{}

// engineErrorMsg reports an error published by the engine.
type engineErrorMsg struct {
	err error
}

// activationDoneMsg is returned by the tea.Cmd that activates a preset.
type activationDoneMsg struct {
	name string
	err  error
}

// serverDoneMsg is returned by the tea.Cmd that starts or stops the server.
type serverDoneMsg struct {
	start bool
	err   error
}

// reloadDoneMsg is returned by the tea.Cmd that forces a reparse.
type reloadDoneMsg struct {
	err error
}

// openMenuMsg is sent when another process asks for the menu.
type openMenuMsg struct{}
