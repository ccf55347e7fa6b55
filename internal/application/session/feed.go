package session

import (
	"sync"

	"github.com/khoahotran/spotme/internal/application/render"
	"github.com/khoahotran/spotme/internal/application/service"
)

const (
	EventView         = "view"
	EventNotification = "notification"
)

type Notification struct {
	Kind    service.NotificationKind `json:"kind"`
	Message string                   `json:"message"`
}

// Event is one message on a session's live feed.
type Event struct {
	Type         string        `json:"type"`
	View         *render.View  `json:"view,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

// Feed fans session events out to live subscribers. Slow subscribers lose
// events rather than stall the writer.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	closed bool
}

func NewFeed() *Feed {
	return &Feed{subs: map[int]chan Event{}}
}

// Subscribe returns a channel of future events and a cancel func. The
// channel is closed on cancel or when the feed closes.
func (f *Feed) Subscribe(buffer int) (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Event, buffer)
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	f.next++
	id := f.next
	f.subs[id] = ch

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
}

func (f *Feed) Publish(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (f *Feed) HasSubscribers() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs) > 0
}

// Notify makes the feed a service.Notifier.
func (f *Feed) Notify(kind service.NotificationKind, message string) {
	f.Publish(Event{Type: EventNotification, Notification: &Notification{Kind: kind, Message: message}})
}

func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
