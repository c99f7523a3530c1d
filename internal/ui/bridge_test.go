package ui

import (
	"testing"

	"github.com/trueblocks/deskshell/internal/events"
)

func TestBridgeForwardsEvents(t *testing.T) {
	bus := &events.Bus{}
	br := newBridge(bus)
	defer br.close()

	bus.Emit(events.StatusLog, "saved")
	bus.Emit(events.TabCycle, events.TabCyclePayload{Route: "/data", Reverse: true})
	bus.Emit(events.FileStatus, events.FileStatusPayload{Path: "user.toml", Dirty: true})

	if got := br.listen()(); got != statusMsg("saved") {
		t.Fatalf("first message = %#v, want statusMsg(saved)", got)
	}
	tc, ok := br.listen()().(tabCycleMsg)
	if !ok || tc.Route != "/data" || !tc.Reverse {
		t.Fatalf("second message = %#v, want reverse tab cycle on /data", tc)
	}
	fs, ok := br.listen()().(fileStatusMsg)
	if !ok || fs.Path != "user.toml" || !fs.Dirty {
		t.Fatalf("third message = %#v, want dirty user.toml", fs)
	}
}

func TestBridgeCloseUnsubscribes(t *testing.T) {
	bus := &events.Bus{}
	br := newBridge(bus)
	if bus.Len() != 3 {
		t.Fatalf("subscriptions = %d, want 3", bus.Len())
	}
	br.close()
	br.close()
	if bus.Len() != 0 {
		t.Fatalf("subscriptions after close = %d, want 0", bus.Len())
	}
	bus.Emit(events.StatusLog, "late")
	if got := br.listen()(); got != nil {
		t.Fatalf("listen after close = %#v, want nil", got)
	}
}

func TestBridgeDropsWhenFull(t *testing.T) {
	bus := &events.Bus{}
	br := newBridge(bus)
	defer br.close()
	for i := 0; i < bridgeBuffer+5; i++ {
		bus.Emit(events.StatusLog, "x")
	}
	if got := len(br.ch); got != bridgeBuffer {
		t.Fatalf("buffered = %d, want %d", got, bridgeBuffer)
	}
}
