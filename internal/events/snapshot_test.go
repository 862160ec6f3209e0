package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

func TestSnapshotBroadcaster(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		b := NewSnapshotBroadcaster(4)
		a, c := b.Subscribe(), b.Subscribe()

		b.Publish(domain.Snapshot{ID: "1"})

		assert.Equal(t, "1", (<-a).ID)
		assert.Equal(t, "1", (<-c).ID)
		assert.Equal(t, 2, b.Subscribers())
	})

	t.Run("replays latest to new subscribers", func(t *testing.T) {
		b := NewSnapshotBroadcaster(4)
		_, ok := b.Latest()
		assert.False(t, ok)

		b.Publish(domain.Snapshot{ID: "1"})
		b.Publish(domain.Snapshot{ID: "2"})

		ch := b.Subscribe()
		require.Len(t, ch, 1)
		assert.Equal(t, "2", (<-ch).ID)

		latest, ok := b.Latest()
		require.True(t, ok)
		assert.Equal(t, "2", latest.ID)
	})

	t.Run("drops snapshots for slow consumers", func(t *testing.T) {
		b := NewSnapshotBroadcaster(1)
		ch := b.Subscribe()

		b.Publish(domain.Snapshot{ID: "1"})
		b.Publish(domain.Snapshot{ID: "2"})

		require.Len(t, ch, 1)
		assert.Equal(t, "1", (<-ch).ID)
	})

	t.Run("unsubscribe closes the channel once", func(t *testing.T) {
		b := NewSnapshotBroadcaster(1)
		ch := b.Subscribe()

		b.Unsubscribe(ch)
		b.Unsubscribe(ch)

		_, open := <-ch
		assert.False(t, open)
		assert.Zero(t, b.Subscribers())
	})
}
