package vscreen

import (
	"io"
	"sync"
)

// Topic partitions change notifications so subscribers can filter cheaply.
type Topic int

const (
	// ChangeContent signals that cells, cursor or screen modes changed.
	ChangeContent Topic = iota
	// ChangeLabels signals that the title or a button label changed.
	ChangeLabels
)

// String implements fmt.Stringer.
func (t Topic) String() string {
	switch t {
	case ChangeContent:
		return "content"
	case ChangeLabels:
		return "labels"
	default:
		return "unknown"
	}
}

// Notifier is told about screen changes. NotifyChange is called after the
// screen lock is released and must not block.
type Notifier interface {
	NotifyChange(topic Topic)
}

// NoopNotifier ignores all change notifications.
type NoopNotifier struct{}

func (NoopNotifier) NotifyChange(topic Topic) {}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(topic Topic)

func (f NotifierFunc) NotifyChange(topic Topic) { f(topic) }

// Broadcaster fans change notifications out to subscriber channels.
// A subscriber that is not keeping up misses notifications instead of
// blocking the screen writer.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[chan Topic]struct{}
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan Topic]struct{}),
	}
}

// Subscribe registers a new channel that receives topics.
func (b *Broadcaster) Subscribe() chan Topic {
	ch := make(chan Topic, 16)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch.
func (b *Broadcaster) Unsubscribe(ch chan Topic) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of registered channels.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

func (b *Broadcaster) NotifyChange(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- topic:
		default:
			// Channel full, skip
		}
	}
}

// ResponseProvider writes terminal responses (e.g., cursor position reports) back to the host.
// Typically an io.Writer connected to the PTY input.
type ResponseProvider = io.Writer

// NoopResponse discards all response data (useful when responses are not needed).
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// BellProvider handles bell events triggered by BEL (0x07) characters.
type BellProvider interface {
	// Ring is called when a bell character is received.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// Ensure implementations satisfy their interfaces
var (
	_ Notifier         = NoopNotifier{}
	_ Notifier         = NotifierFunc(nil)
	_ Notifier         = (*Broadcaster)(nil)
	_ ResponseProvider = NoopResponse{}
	_ BellProvider     = NoopBell{}
)
