package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/questx-lab/classroom/config"
	"github.com/questx-lab/classroom/internal/domain/notification/dispatcher"
	"github.com/questx-lab/classroom/internal/domain/notification/registry"
	"github.com/questx-lab/classroom/internal/domain/notification/task"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/kafka"
	"github.com/questx-lab/classroom/pkg/logger"
	"github.com/questx-lab/classroom/pkg/pubsub"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/questx-lab/classroom/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	registryMemory = "memory"
	registryRedis  = "redis"
	queueMemory    = "memory"
	queueKafka     = "kafka"
)

type srv struct {
	app  *cli.App
	ctx  context.Context
	stop context.CancelFunc

	redisClient xredis.Client
	publisher   pubsub.Publisher
	registry    registry.Registry
	queue       task.Queue
	worker      *task.Worker

	// Only one of them is set, depending on the queue.
	runQueue   func(ctx context.Context)
	handleTask pubsub.SubscribeHandler

	userRepo           repository.UserRepository
	courseRepo         repository.CourseRepository
	courseActivityRepo repository.CourseActivityRepository
	enrollmentRepo     repository.EnrollmentRepository
	notificationRepo   repository.NotificationRepository
	lobbyMessageRepo   repository.LobbyMessageRepository
	taskFailureRepo    repository.TaskFailureRepository
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	var ctx context.Context
	ctx, s.stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))

	node, err := snowflake.NewNode(cfg.SnowFlake.NodeID)
	if err != nil {
		return fmt.Errorf("cannot create snowflake node: %w", err)
	}
	s.ctx = xcontext.WithSnowFlake(ctx, node)

	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(), // data source name
		DefaultStringSize:         256,                    // default size for string fields
		DisableDatetimePrecision:  true,                   // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,                   // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,                   // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false,                  // auto configure based on currently MySQL version
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseGormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(xcontext.DB(s.ctx)); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)

	var err error
	s.publisher, err = kafka.NewPublisher(uuid.NewString(), cfg.Kafka.Addr)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.courseRepo = repository.NewCourseRepository()
	s.courseActivityRepo = repository.NewCourseActivityRepository()
	s.enrollmentRepo = repository.NewEnrollmentRepository()
	s.notificationRepo = repository.NewNotificationRepository()
	s.lobbyMessageRepo = repository.NewLobbyMessageRepository()
	s.taskFailureRepo = repository.NewTaskFailureRepository()
}

func (s *srv) loadRegistry() {
	switch xcontext.Configs(s.ctx).Notification.Registry {
	case registryRedis:
		s.loadRedisClient()
		s.registry = registry.NewRedisRegistry(
			s.ctx,
			uuid.NewString(),
			registry.NewRedisTransport(s.ctx, s.redisClient),
			s.redisClient,
		)
	case registryMemory:
		s.registry = registry.NewMemoryRegistry()
	default:
		panic(fmt.Sprintf("unknown registry %q", xcontext.Configs(s.ctx).Notification.Registry))
	}
}

// loadWorker needs the registry and repositories to be loaded.
func (s *srv) loadWorker() {
	d := dispatcher.NewDispatcher(
		s.registry,
		s.userRepo,
		s.courseRepo,
		s.courseActivityRepo,
		s.enrollmentRepo,
		s.notificationRepo,
		s.lobbyMessageRepo,
	)

	s.worker = task.NewWorker(d, s.taskFailureRepo)
}

func (s *srv) loadQueue() {
	cfg := xcontext.Configs(s.ctx).Task
	switch cfg.Queue {
	case queueKafka:
		s.loadPublisher()
		queue := task.NewKafkaQueue(s.publisher, cfg.Topic, cfg.RetryTopic, s.worker)
		s.queue = queue
		s.handleTask = queue.HandlePack
	case queueMemory:
		queue := task.NewMemoryQueue(1024)
		s.queue = queue
		s.runQueue = func(ctx context.Context) { queue.Run(ctx, s.worker) }
	default:
		panic(fmt.Sprintf("unknown task queue %q", cfg.Queue))
	}
}
