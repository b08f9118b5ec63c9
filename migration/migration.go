package migration

import (
	"context"
	"errors"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type migrator func(context.Context) error

// migrators[i] upgrades the schema from version i to version i+1. Append new
// migrators, never reorder them.
var migrators = []migrator{
	AutoMigrate,
	migrate0001,
}

func LatestVersion() int {
	return len(migrators)
}

// Migrate brings the database to the latest version. A fresh database is
// created by AutoMigrate directly.
func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if !db.Migrator().HasTable(&entity.Migration{}) {
		if err := AutoMigrate(ctx); err != nil {
			return err
		}

		return db.Create(&entity.Migration{Version: LatestVersion()}).Error
	}

	var last entity.Migration
	err := db.Order("version DESC").Take(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	for version := last.Version; version < LatestVersion(); version++ {
		xcontext.Logger(ctx).Infof("Migrating database to version %d", version+1)
		if err := migrators[version](ctx); err != nil {
			return err
		}

		if err := db.Create(&entity.Migration{Version: version + 1}).Error; err != nil {
			return err
		}
	}

	return nil
}
