package main

import (
	"context"
	"fmt"

	"github.com/questx-lab/classroom/pkg/kafka"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startWorker(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Task.Queue != queueKafka {
		return fmt.Errorf("worker only consumes the kafka task queue, but the queue is %q", cfg.Task.Queue)
	}

	if cfg.Notification.Registry != registryRedis {
		xcontext.Logger(s.ctx).Warnf("Worker uses the %s registry, events will not reach other processes",
			cfg.Notification.Registry)
	}

	s.loadDatabase()
	s.migrateDB()
	s.loadRepos()
	s.loadRegistry()
	s.loadWorker()
	s.loadQueue()
	defer s.closeRegistry()

	// Each partition is consumed by its own goroutine, so retries waiting for
	// their backoff do not delay new tasks.
	topics := []string{cfg.Task.Topic, cfg.Task.RetryTopic}
	subscriber, err := kafka.NewSubscriber(cfg.Task.GroupID, cfg.Kafka.Addr, topics, s.handleTask)
	if err != nil {
		return err
	}
	defer subscriber.Stop(context.Background())

	xcontext.Logger(s.ctx).Infof("Worker start consuming topics %v", topics)
	return subscriber.Subscribe(s.ctx)
}
