package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/questx-lab/classroom/internal/domain/notification/event"
	"github.com/stretchr/testify/require"
)

type testConn struct {
	id string
	c  chan *event.EventRequest
}

func newTestConn(id string) *testConn {
	return &testConn{id: id, c: make(chan *event.EventRequest, 4)}
}

func (c *testConn) ID() string {
	return c.id
}

func (c *testConn) Deliver(ev *event.EventRequest) {
	select {
	case c.c <- ev:
	default:
	}
}

func (c *testConn) requireReceived(t *testing.T, op string) {
	select {
	case ev := <-c.c:
		require.Equal(t, op, ev.Op)
	case <-time.After(time.Second):
		require.FailNow(t, "no event received", "conn %s", c.id)
	}
}

func (c *testConn) requireNothing(t *testing.T) {
	select {
	case ev := <-c.c:
		require.FailNow(t, "unexpected event", "conn %s received %s", c.id, ev.Op)
	case <-time.After(50 * time.Millisecond):
	}
}

func chatNotification() *event.EventRequest {
	return event.New(&event.ChatNotificationEvent{Message: "hi"}, event.Metadata{To: "chat_notifications"})
}

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	a := newTestConn("a")
	b := newTestConn("b")

	require.NoError(t, r.Join(ctx, "g", a))
	require.NoError(t, r.Join(ctx, "g", a))
	require.NoError(t, r.Join(ctx, "g", b))

	n, err := r.Count(ctx, "g")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, r.Send(ctx, "g", chatNotification()))
	a.requireReceived(t, event.ChatNotificationOp)
	a.requireNothing(t)
	b.requireReceived(t, event.ChatNotificationOp)

	require.NoError(t, r.Leave(ctx, "g", "a"))
	require.NoError(t, r.Leave(ctx, "g", "a"))
	require.NoError(t, r.Leave(ctx, "unknown", "a"))

	require.NoError(t, r.Send(ctx, "g", chatNotification()))
	a.requireNothing(t)
	b.requireReceived(t, event.ChatNotificationOp)

	require.NoError(t, r.Leave(ctx, "g", "b"))
	require.Empty(t, r.Groups())

	// Sending to a group without members is not an error.
	require.NoError(t, r.Send(ctx, "g", chatNotification()))
}

func TestMemoryRegistry_Concurrent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := newTestConn(string(rune('A' + i)))
			require.NoError(t, r.Join(ctx, "g", conn))
			require.NoError(t, r.Send(ctx, "g", chatNotification()))
			require.NoError(t, r.Leave(ctx, "g", conn.ID()))
		}(i)
	}
	wg.Wait()

	n, err := r.Count(ctx, "g")
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, r.Groups())
}
