package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/gearguard-systems/gearguard-stack/common/models"
)

// TestClientAgainstRedis exercises the store against a real Redis instance.
// Requires Docker; run with -short to skip.
func TestClientAgainstRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := New(connStr, Keys{})
	require.NoError(t, err)
	defer store.Close()

	t.Run("queue round trip", func(t *testing.T) {
		ev := &models.DetectionEvent{
			Timestamp:      time.Now().Unix(),
			CameraID:       "cam-1",
			TrackID:        3,
			ImageReference: "snap_3.jpg",
			Tasks:          []string{"helmet"},
		}
		require.NoError(t, store.Enqueue(ctx, ev))

		raw, err := store.PopQueued(ctx)
		require.NoError(t, err)
		assert.Contains(t, raw, `"camera_id":"cam-1"`)

		_, err = store.PopQueued(ctx)
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("tail cursor only sees new messages", func(t *testing.T) {
		require.NoError(t, store.PublishStats(ctx, "before"))

		// Resolve "$" to the current tail, then publish.
		done := make(chan []StreamMessage, 1)
		go func() {
			msgs, _, _ := store.ReadStats(ctx, "$", 2*time.Second)
			done <- msgs
		}()

		time.Sleep(200 * time.Millisecond)
		require.NoError(t, store.PublishStats(ctx, "after"))

		select {
		case msgs := <-done:
			require.Len(t, msgs, 1)
			assert.Equal(t, "after", msgs[0].Payload)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for stream read")
		}
	})

	t.Run("atomic counters", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			require.NoError(t, store.IncrViolation(ctx, "no_vest"))
		}
		count, err := store.ViolationCount(ctx, "vest")
		require.NoError(t, err)
		assert.Equal(t, int64(10), count)
	})
}
