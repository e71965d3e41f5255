package main

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/jackselect/pkg/engine"
	"github.com/germanamz/jackselect/pkg/status"
)

// startBridge launches the event watcher goroutine, which converts events
// from sub to bubbletea messages. It only calls p.Send() and never touches
// model state directly. The returned cancel function stops the watcher and
// waits for it to exit.
func startBridge(ctx context.Context, p *tea.Program, events *engine.EventBus, sub *engine.Subscription) context.CancelFunc {
	bridgeCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup

	wg.Go(func() {
		defer events.Unsubscribe(sub)
		for {
			select {
			case <-bridgeCtx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if msg := eventMsg(ev); msg != nil {
					p.Send(msg)
				}
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}

// eventMsg maps an engine event to the message the menu handles, or nil.
func eventMsg(ev engine.Event) tea.Msg {
	switch ev.Kind {
	case engine.EventStatusChanged:
		st, ok := ev.Data.(status.Status)
		if !ok {
			return nil
		}
		return statusMsg{status: st}

	case engine.EventPresetsChanged:
		return presetsChangedMsg{}

	case engine.EventError:
		err, ok := ev.Data.(error)
		if !ok {
			err = errors.New("unknown engine error")
		}
		return engineErrorMsg{err: err}
	}

	return nil
}
