package cron

import (
	"context"
	"time"

	"github.com/questx-lab/classroom/internal/domain/notification/registry"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/questx-lab/classroom/pkg/xredis"
	"github.com/samber/lo"
)

// CleanupGroupMembersCronJob removes the group members of instances which
// stopped sending heartbeats, for example after a crash.
type CleanupGroupMembersCronJob struct {
	redisClient xredis.Client
}

func NewCleanupGroupMembersCronJob(redisClient xredis.Client) *CleanupGroupMembersCronJob {
	return &CleanupGroupMembersCronJob{redisClient: redisClient}
}

func (job *CleanupGroupMembersCronJob) Do(ctx context.Context) {
	memberKeys, err := job.redisClient.Keys(ctx, registry.MembersKey("*"))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get all group member keys: %v", err)
		return
	}

	alive := map[string]bool{}
	for _, key := range memberKeys {
		members, err := job.redisClient.SMembers(ctx, key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get members of %s: %v", key, err)
			continue
		}

		staleMembers := lo.Filter(members, func(member string, _ int) bool {
			instanceID := registry.InstanceOfMember(member)
			isAlive, ok := alive[instanceID]
			if !ok {
				isAlive, err = job.redisClient.Exist(ctx, registry.InstanceKey(instanceID))
				if err != nil {
					xcontext.Logger(ctx).Warnf("Cannot check instance %s: %v", instanceID, err)
					return false
				}
				alive[instanceID] = isAlive
			}

			return !isAlive
		})

		if len(staleMembers) == 0 {
			continue
		}

		if err := job.redisClient.SRem(ctx, key, staleMembers...); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot remove stale members of %s: %v", key, err)
			continue
		}

		xcontext.Logger(ctx).Infof("Removed %d stale members of %s", len(staleMembers), key)
	}
}

func (job *CleanupGroupMembersCronJob) RunNow() bool {
	return true
}

func (job *CleanupGroupMembersCronJob) Next() time.Time {
	return time.Now().Add(time.Minute)
}
