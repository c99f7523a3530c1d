package events

import "testing"

func TestBus_EmitDeliversInOrder(t *testing.T) {
	var b Bus
	var got []string
	b.Subscribe(StatusLog, func(p any) { got = append(got, "first:"+p.(string)) })
	b.Subscribe(StatusLog, func(p any) { got = append(got, "second:"+p.(string)) })
	b.Subscribe(TabCycle, func(any) { t.Fatal("tab-cycle handler called for status event") })

	b.Emit(StatusLog, "hi")

	if len(got) != 2 || got[0] != "first:hi" || got[1] != "second:hi" {
		t.Fatalf("delivered = %v, want [first:hi second:hi]", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	var b Bus
	calls := 0
	id := b.Subscribe(FileStatus, func(any) { calls++ })
	other := b.Subscribe(FileStatus, func(any) {})
	if id == other {
		t.Fatalf("Subscribe returned duplicate id %q", id)
	}

	b.Unsubscribe(id)
	b.Unsubscribe("missing")
	b.Emit(FileStatus, FileStatusPayload{Path: "a.txt", Dirty: true})

	if calls != 0 {
		t.Fatalf("calls = %d, want 0 after Unsubscribe", calls)
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
}

func TestBus_HandlerMaySubscribeDuringEmit(t *testing.T) {
	var b Bus
	b.Subscribe(StatusLog, func(any) {
		b.Subscribe(StatusLog, func(any) {})
	})
	b.Emit(StatusLog, "x")
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}
