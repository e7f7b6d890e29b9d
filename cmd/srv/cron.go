package main

import (
	"github.com/questx-lab/classroom/internal/domain/cron"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadRedisClient()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewCleanupGroupMembersCronJob(s.redisClient))
	cronJobManager.Start(s.ctx)

	return nil
}
