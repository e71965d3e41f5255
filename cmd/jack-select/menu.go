package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"

	"github.com/germanamz/jackselect/pkg/control"
	"github.com/germanamz/jackselect/pkg/engine"
	"github.com/germanamz/jackselect/pkg/logging"
)

// controlHandler serves control requests from other processes.
type controlHandler struct {
	*engine.Engine
	program *tea.Program
}

func (h controlHandler) OpenMenu() { h.program.Send(openMenuMsg{}) }

func (h controlHandler) Exit() { h.program.Quit() }

// runMenu runs the engine and the interactive preset menu until the user
// quits, ctx is cancelled, or Exit is requested over the bus.
func runMenu(ctx context.Context, opts options) error {
	s, err := openSession(ctx, opts, true, false)
	if err != nil {
		return err
	}
	defer s.Close()

	log := logging.Component("menu")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.MetricsAddr != "" {
		go serveMetrics(ctx, s.cfg.MetricsAddr)
	}

	model := newAppModel(ctx, s.eng, s.eng.Events())
	p := tea.NewProgram(model, tea.WithContext(ctx))

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Warn().Err(err).Msg("control service disabled")
	} else {
		defer func() { _ = conn.Close() }()

		srv, err := control.Export(conn, controlHandler{Engine: s.eng, program: p})
		if errors.Is(err, control.ErrAlreadyRunning) {
			return err
		}
		if err != nil {
			log.Warn().Err(err).Msg("control service disabled")
		} else {
			defer func() { _ = srv.Close() }()
		}
	}

	go func() { _ = s.eng.Run(ctx) }()

	// Send the program reference so the model can start the bridge goroutine.
	go func() {
		p.Send(programReadyMsg{program: p})
	}()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}
