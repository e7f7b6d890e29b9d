package registry

import (
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/classroom/internal/domain/notification/event"
)

// Hub holds the local connections of one group.
type Hub struct {
	group string
	conns *xsync.MapOf[string, Conn]
}

func NewHub(group string) *Hub {
	return &Hub{
		group: group,
		conns: xsync.NewMapOf[Conn](),
	}
}

func (h *Hub) Register(conn Conn) {
	h.conns.LoadOrStore(conn.ID(), conn)
}

func (h *Hub) Unregister(connID string) {
	h.conns.LoadAndDelete(connID)
}

func (h *Hub) Broadcast(ev *event.EventRequest) {
	h.conns.Range(func(_ string, conn Conn) bool {
		conn.Deliver(ev)
		return true
	})
}

func (h *Hub) Size() int {
	return h.conns.Size()
}

func (h *Hub) IsEmpty() bool {
	return h.Size() == 0
}
