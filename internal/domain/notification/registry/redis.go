package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/questx-lab/classroom/internal/domain/notification/event"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/questx-lab/classroom/pkg/xredis"
	"github.com/samber/lo"
)

const (
	channelPrefix  = "classroom:group:"
	membersPrefix  = "classroom:members:"
	instancePrefix = "classroom:instance:"
)

func channelName(group string) string {
	return channelPrefix + group
}

func MembersKey(group string) string {
	return membersPrefix + group
}

func InstanceKey(instanceID string) string {
	return instancePrefix + instanceID
}

func memberName(instanceID, connID string) string {
	return instanceID + "/" + connID
}

// InstanceOfMember returns the instance id of a member of a members set.
func InstanceOfMember(member string) string {
	instanceID, _, _ := strings.Cut(member, "/")
	return instanceID
}

type redisRegistry struct {
	instanceID  string
	local       *memoryRegistry
	transport   Transport
	redisClient xredis.Client

	// mutex serializes joins and leaves so that a channel is subscribed
	// exactly while the group has a local connection.
	mutex      sync.Mutex
	subscribed map[string]struct{}
}

// NewRedisRegistry returns a registry which keeps local hubs and relays every
// group event through the transport, so that members on other instances
// receive it too. The membership of each group is mirrored into redis sets.
func NewRedisRegistry(
	ctx context.Context,
	instanceID string,
	transport Transport,
	redisClient xredis.Client,
) *redisRegistry {
	r := &redisRegistry{
		instanceID:  instanceID,
		local:       NewMemoryRegistry(),
		transport:   transport,
		redisClient: redisClient,
		subscribed:  make(map[string]struct{}),
	}

	go r.run(ctx)
	return r
}

func (r *redisRegistry) InstanceID() string {
	return r.instanceID
}

func (r *redisRegistry) run(ctx context.Context) {
	for msg := range r.transport.Messages() {
		group, ok := strings.CutPrefix(msg.Channel, channelPrefix)
		if !ok {
			xcontext.Logger(ctx).Warnf("Received message from unknown channel %s", msg.Channel)
			continue
		}

		ev, err := event.Decode(msg.Payload)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot decode event of group %s: %v", group, err)
			continue
		}

		if err := r.local.Send(ctx, group, ev); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot send event to local group %s: %v", group, err)
		}
	}
}

func (r *redisRegistry) Join(ctx context.Context, group string, conn Conn) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.subscribed[group]; !ok {
		if err := r.transport.Subscribe(ctx, channelName(group)); err != nil {
			return err
		}
		r.subscribed[group] = struct{}{}
	}

	if err := r.local.Join(ctx, group, conn); err != nil {
		r.rollbackJoin(ctx, group, conn.ID())
		return err
	}

	if err := r.redisClient.SAdd(ctx, MembersKey(group), memberName(r.instanceID, conn.ID())); err != nil {
		r.rollbackJoin(ctx, group, conn.ID())
		return err
	}

	return nil
}

// rollbackJoin undoes a join which failed halfway, so that the connection is
// not left in a group its session does not know about. The caller must hold
// the mutex.
func (r *redisRegistry) rollbackJoin(ctx context.Context, group string, connID string) {
	if err := r.local.Leave(ctx, group, connID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove %s from local group %s: %v", connID, group, err)
	}

	if err := r.unsubscribeIfEmpty(ctx, group); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unsubscribe group %s: %v", group, err)
	}
}

func (r *redisRegistry) Leave(ctx context.Context, group string, connID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.local.Leave(ctx, group, connID); err != nil {
		return err
	}

	// The local hub is already left, so the channel is released even if the
	// members set cannot be updated.
	unsubscribeErr := r.unsubscribeIfEmpty(ctx, group)

	if err := r.redisClient.SRem(ctx, MembersKey(group), memberName(r.instanceID, connID)); err != nil {
		return err
	}

	return unsubscribeErr
}

// unsubscribeIfEmpty drops the channel of group when no local connection is
// left in it. The caller must hold the mutex.
func (r *redisRegistry) unsubscribeIfEmpty(ctx context.Context, group string) error {
	if _, ok := r.subscribed[group]; !ok {
		return nil
	}

	n, err := r.local.Count(ctx, group)
	if err != nil {
		return err
	}

	if n > 0 {
		return nil
	}

	delete(r.subscribed, group)
	return r.transport.Unsubscribe(ctx, channelName(group))
}

func (r *redisRegistry) Send(ctx context.Context, group string, ev *event.EventRequest) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if err := r.transport.Publish(ctx, channelName(group), b); err != nil {
		return fmt.Errorf("cannot publish event to group %s: %w", group, err)
	}

	return nil
}

// Count returns the number of connections in group across every instance.
func (r *redisRegistry) Count(ctx context.Context, group string) (int, error) {
	n, err := r.redisClient.SCard(ctx, MembersKey(group))
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

// Heartbeat marks this instance as alive for ttl.
func (r *redisRegistry) Heartbeat(ctx context.Context, ttl time.Duration) error {
	return r.redisClient.SetWithTTL(ctx, InstanceKey(r.instanceID), time.Now().Format(time.RFC3339), ttl)
}

// Close stops relaying and removes the local connections from the members
// sets.
func (r *redisRegistry) Close(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, group := range r.local.Groups() {
		members := lo.Map(r.local.Members(group), func(connID string, _ int) string {
			return memberName(r.instanceID, connID)
		})

		if len(members) > 0 {
			if err := r.redisClient.SRem(ctx, MembersKey(group), members...); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot remove members of group %s: %v", group, err)
			}
		}
	}

	if err := r.redisClient.Del(ctx, InstanceKey(r.instanceID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete instance key: %v", err)
	}

	return r.transport.Close()
}
