package proxy

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/questx-lab/classroom/internal/domain/notification/event"
	"github.com/questx-lab/classroom/internal/domain/notification/registry"
	"github.com/questx-lab/classroom/pkg/logger"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

type State int32

const (
	Disconnected State = iota
	Connecting
	Joined
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Joined:
		return "joined"
	default:
		return "disconnected"
	}
}

// Session is the server side of one websocket connection. It tracks every
// group it joined so that they can be left when the connection ends.
type Session struct {
	C chan *event.EventRequest

	id       string
	userID   string
	registry registry.Registry
	logger   logger.Logger
	state    atomic.Int32

	mutex  sync.Mutex
	joined map[string]struct{}
}

func NewSession(ctx context.Context, userID string, registry registry.Registry) *Session {
	s := &Session{
		C:        make(chan *event.EventRequest, xcontext.Configs(ctx).Notification.SessionBufferSize),
		id:       uuid.NewString(),
		userID:   userID,
		registry: registry,
		logger:   xcontext.Logger(ctx),
		joined:   make(map[string]struct{}),
	}
	s.setState(Connecting)

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
}

// Deliver queues the event for the session goroutine. Events addressed to
// another user are skipped. The event is dropped if the buffer is full.
func (s *Session) Deliver(ev *event.EventRequest) {
	if ev.Metadata.ToUser != "" && ev.Metadata.ToUser != s.userID {
		return
	}

	select {
	case s.C <- ev:
	default:
		s.logger.Warnf("Session %s of user %s is full, drop event %s of group %s",
			s.id, s.userID, ev.Op, ev.Metadata.To)
	}
}

func (s *Session) Join(ctx context.Context, group string) error {
	if err := s.registry.Join(ctx, group, s); err != nil {
		return err
	}

	s.mutex.Lock()
	s.joined[group] = struct{}{}
	s.mutex.Unlock()

	return nil
}

func (s *Session) Leave(ctx context.Context, group string) error {
	if err := s.registry.Leave(ctx, group, s.id); err != nil {
		return err
	}

	s.mutex.Lock()
	delete(s.joined, group)
	s.mutex.Unlock()

	return nil
}

// LeaveAll leaves every joined group. It is called once when the connection
// ends.
func (s *Session) LeaveAll(ctx context.Context) {
	for _, group := range s.Groups() {
		if err := s.registry.Leave(ctx, group, s.id); err != nil {
			s.logger.Errorf("Session %s cannot leave group %s: %v", s.id, group, err)
		}
	}

	s.mutex.Lock()
	s.joined = make(map[string]struct{})
	s.mutex.Unlock()

	s.setState(Disconnected)
}

// Groups returns the sorted names of joined groups.
func (s *Session) Groups() []string {
	s.mutex.Lock()
	groups := lo.Keys(s.joined)
	s.mutex.Unlock()

	slices.Sort(groups)
	return groups
}
