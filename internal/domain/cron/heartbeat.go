package cron

import (
	"context"
	"time"

	"github.com/questx-lab/classroom/pkg/xcontext"
)

type Heartbeater interface {
	Heartbeat(ctx context.Context, ttl time.Duration) error
}

// HeartbeatCronJob keeps the instance key of this service instance alive, so
// that other instances do not treat its group members as stale.
type HeartbeatCronJob struct {
	heartbeater Heartbeater
	interval    time.Duration
	ttl         time.Duration
}

func NewHeartbeatCronJob(heartbeater Heartbeater, interval, ttl time.Duration) *HeartbeatCronJob {
	return &HeartbeatCronJob{heartbeater: heartbeater, interval: interval, ttl: ttl}
}

func (job *HeartbeatCronJob) Do(ctx context.Context) {
	if err := job.heartbeater.Heartbeat(ctx, job.ttl); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot send heartbeat: %v", err)
	}
}

func (job *HeartbeatCronJob) RunNow() bool {
	return true
}

func (job *HeartbeatCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
