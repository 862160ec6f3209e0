// Package events fans portfolio snapshots out to the table views.
package events

import (
	"sync"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// SnapshotBroadcaster fans out snapshots to all subscribers via buffered channels.
// New subscribers receive the latest snapshot first.
type SnapshotBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan domain.Snapshot]struct{}
	buffer int
	latest *domain.Snapshot
}

// NewSnapshotBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewSnapshotBroadcaster(buffer int) *SnapshotBroadcaster {
	if buffer < 1 {
		buffer = 16
	}
	return &SnapshotBroadcaster{
		subs:   make(map[chan domain.Snapshot]struct{}),
		buffer: buffer,
	}
}

// Publish sends the snapshot to all subscribers, dropping if a reader is slow.
func (b *SnapshotBroadcaster) Publish(s domain.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = &s
	for ch := range b.subs {
		select {
		case ch <- s:
		default:
			// drop slow consumer
		}
	}
}

// Latest returns the last published snapshot.
func (b *SnapshotBroadcaster) Latest() (domain.Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.latest == nil {
		return domain.Snapshot{}, false
	}
	return *b.latest, true
}

// Subscribe returns a channel that receives snapshots until Unsubscribe is called.
func (b *SnapshotBroadcaster) Subscribe() chan domain.Snapshot {
	ch := make(chan domain.Snapshot, b.buffer)
	b.mu.Lock()
	if b.latest != nil {
		ch <- *b.latest
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *SnapshotBroadcaster) Unsubscribe(ch chan domain.Snapshot) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Subscribers returns the number of active subscribers.
func (b *SnapshotBroadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
