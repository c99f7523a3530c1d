// Package events is the in-process publish/subscribe channel used for
// status bar messages and cross-component signals.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Topics published by the shell.
const (
	StatusLog  = "statusbar:log"
	TabCycle   = "hotkey:tab-cycle"
	FileStatus = "file:status"
)

// TabCyclePayload is emitted when a navigation chord fires on the route that is
// already showing. Reverse is set for the alternate chord.
type TabCyclePayload struct {
	Route   string
	Key     string
	Reverse bool
}

// FileStatusPayload reports the dirty state of an open file.
type FileStatusPayload struct {
	Path  string
	Dirty bool
}

// Handler receives an event payload.
type Handler func(payload any)

// ID identifies a subscription.
type ID string

type subscription struct {
	id      ID
	topic   string
	handler Handler
}

// Bus fans events out to subscribers. The zero value is ready to use.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

// Subscribe registers handler for topic and returns an ID for Unsubscribe.
func (b *Bus) Subscribe(topic string, handler Handler) ID {
	id := ID(uuid.NewString())
	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, topic: topic, handler: handler})
	b.mu.Unlock()
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers payload to every handler of topic, in subscription order, on
// the calling goroutine.
func (b *Bus) Emit(topic string, payload any) {
	b.mu.RLock()
	var handlers []Handler
	for _, s := range b.subs {
		if s.topic == topic {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
