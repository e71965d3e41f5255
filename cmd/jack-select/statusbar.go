package main

import (
	"github.com/germanamz/jackselect/pkg/status"
)

// statusBarModel shows the live JACK server status.
type statusBarModel struct {
	status status.Status
}

func newStatusBar(st status.Status) statusBarModel {
	return statusBarModel{status: st}
}

func (m statusBarModel) View() string {
	line := m.status.String()

	if m.status.Bridge {
		line += " · a2j bridge running"
	}

	switch {
	case m.status.Err != "":
		return errorStyle.Render(line)
	case m.status.Started:
		return startedStyle.Render("● " + line)
	default:
		return stoppedStyle.Render("○ " + line)
	}
}
