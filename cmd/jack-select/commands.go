package main

import (
	"context"
	"fmt"
	"io"

	"github.com/godbus/dbus/v5"

	"github.com/germanamz/jackselect/pkg/control"
)

func runList(ctx context.Context, opts options, w io.Writer) error {
	s, err := openSession(ctx, opts, false, true)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, line := range listLines(s.eng.Presets()) {
		fmt.Fprintln(w, line)
	}

	return nil
}

func runShow(ctx context.Context, opts options, name string, w io.Writer) error {
	s, err := openSession(ctx, opts, false, true)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.eng.Preset(name)
	if err != nil {
		return err
	}

	initMarkdownRenderer(0)
	fmt.Fprintln(w, renderMarkdown(presetMarkdown(p)))

	return nil
}

func runDiff(ctx context.Context, opts options, name string, w io.Writer) error {
	s, err := openSession(ctx, opts, false, true)
	if err != nil {
		return err
	}
	defer s.Close()

	changes, err := s.eng.Preview(ctx, name)
	if err != nil {
		return err
	}

	out, err := renderDiff(name, changes)
	if err != nil {
		return err
	}

	if out == "" {
		fmt.Fprintf(w, "Preset %q matches the current JACK configuration.\n", name)
		return nil
	}

	fmt.Fprint(w, out)

	return nil
}

func runActivate(ctx context.Context, opts options, name string, w io.Writer) error {
	s, err := openSession(ctx, opts, false, true)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.eng.ActivatePreset(ctx, name); err != nil {
		return err
	}

	fmt.Fprintf(w, "Activated preset %q.\n", name)

	return nil
}

func runServer(ctx context.Context, opts options, start bool) error {
	s, err := openSession(ctx, opts, false, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if start {
		return s.eng.StartServer(ctx)
	}

	return s.eng.StopServer(ctx)
}

func runStatus(ctx context.Context, opts options, w io.Writer) error {
	s, err := openSession(ctx, opts, false, false)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(w, s.eng.PollStatus(ctx).String())

	return nil
}

func runPid(ctx context.Context, w io.Writer) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer func() { _ = conn.Close() }()

	pid, err := control.NewClient(conn).Pid(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "JACK-Select PID: %d\n", pid)

	return nil
}
