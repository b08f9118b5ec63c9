package testutil

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ywitter/backend/config"
	"github.com/ywitter/backend/migration"
	"github.com/ywitter/backend/pkg/logger"
	"github.com/ywitter/backend/pkg/token"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.SearchServer.IndexDir = ""
	cfg.Moderation.SuperAdminUsername = User4.Username
	return cfg
}

// MockContext returns a context holding a fresh in memory database with the
// latest schema.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection of an in memory sqlite database sees its own database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	cfg := MockConfigs()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	ctx = xcontext.WithTokenEngine(ctx, token.NewEngine(cfg.Auth.Issuer, cfg.Auth.TokenSecret))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
