package registry

import (
	"context"

	"github.com/questx-lab/classroom/internal/domain/notification/event"
)

// Conn is a live connection which can be a member of groups.
type Conn interface {
	ID() string

	// Deliver hands the event to the connection. It must not block.
	Deliver(ev *event.EventRequest)
}

type Registry interface {
	// Join adds conn to group. Joining twice is a no-op.
	Join(ctx context.Context, group string, conn Conn) error

	// Leave removes the connection from group. Leaving a group which the
	// connection is not a member of is a no-op.
	Leave(ctx context.Context, group string, connID string) error

	// Send delivers ev to every connection which joined group before the
	// call. Delivery is best effort.
	Send(ctx context.Context, group string, ev *event.EventRequest) error

	// Count returns the number of connections in group.
	Count(ctx context.Context, group string) (int, error)
}
