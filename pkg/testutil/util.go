package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/classroom/config"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/logger"
	"github.com/questx-lab/classroom/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Env = "test"
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.AccessToken.Expiration = time.Minute
	cfg.Notification.SessionBufferSize = 16
	cfg.Task.MaxAttempts = 3
	cfg.Task.MinBackoff = time.Millisecond
	cfg.Task.MaxBackoff = 10 * time.Millisecond
	return cfg
}

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to ":memory:" opens a different database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithSnowFlake(ctx, node)

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
