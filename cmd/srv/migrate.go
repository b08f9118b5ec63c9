package main

import (
	"github.com/urfave/cli/v2"
	"github.com/ywitter/backend/migration"
	"github.com/ywitter/backend/pkg/xcontext"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadDatabase()
	s.loadRepos()

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migrated database to version %d", migration.LatestVersion())
	return migration.PromoteSuperAdmin(s.ctx, s.userRepo)
}
