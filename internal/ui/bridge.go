package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trueblocks/deskshell/internal/events"
)

const bridgeBuffer = 32

type statusMsg string

type tabCycleMsg events.TabCyclePayload

type fileStatusMsg events.FileStatusPayload

// bridge forwards bus events into the update loop. Handlers run on the
// emitter's goroutine and never block: when the buffer is full the event is
// dropped.
type bridge struct {
	bus *events.Bus
	ids []events.ID
	ch  chan tea.Msg

	mu     sync.Mutex
	closed bool
}

func newBridge(bus *events.Bus) *bridge {
	br := &bridge{bus: bus, ch: make(chan tea.Msg, bridgeBuffer)}
	br.ids = []events.ID{
		bus.Subscribe(events.StatusLog, func(p any) {
			if s, ok := p.(string); ok {
				br.send(statusMsg(s))
			}
		}),
		bus.Subscribe(events.TabCycle, func(p any) {
			if tc, ok := p.(events.TabCyclePayload); ok {
				br.send(tabCycleMsg(tc))
			}
		}),
		bus.Subscribe(events.FileStatus, func(p any) {
			if fs, ok := p.(events.FileStatusPayload); ok {
				br.send(fileStatusMsg(fs))
			}
		}),
	}
	return br
}

func (br *bridge) send(msg tea.Msg) {
	br.mu.Lock()
	defer br.mu.Unlock()
	if br.closed {
		return
	}
	select {
	case br.ch <- msg:
	default:
	}
}

// listen waits for the next event. It returns nil once the bridge is closed.
func (br *bridge) listen() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-br.ch
		if !ok {
			return nil
		}
		return msg
	}
}

// close unsubscribes every handler and ends listen.
func (br *bridge) close() {
	for _, id := range br.ids {
		br.bus.Unsubscribe(id)
	}
	br.mu.Lock()
	defer br.mu.Unlock()
	if !br.closed {
		br.closed = true
		close(br.ch)
	}
}
