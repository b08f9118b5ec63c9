package main

import (
	"github.com/urfave/cli/v2"
)

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "ywitter"
	s.app.Usage = "Ywitter backend services"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.toml",
			Usage:   "Path of the TOML configuration file",
			EnvVars: []string{"YWITTER_CONFIG"},
		},
	}
	s.app.Before = s.setup
	s.app.After = s.teardown
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serve the HTTP API and the prometheus metrics.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Category:    "Tool",
			Description: `Bring the schema to the latest version, then promote the configured super admin.`,
		},
		{
			Action:      s.startWebhook,
			Name:        "webhook",
			Usage:       "Start webhook worker",
			Category:    "Worker",
			Description: `Consume domain events from kafka and deliver them to the subscribed webhooks.`,
		},
		{
			Action:   s.startRole,
			Name:     "role",
			Usage:    "Grant a global role to a user",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Required: true},
				&cli.StringFlag{Name: "role", Required: true, Usage: "super_admin, admin, user or moderator"},
			},
		},
		{
			Action:      s.startReindex,
			Name:        "reindex",
			Usage:       "Rebuild the search index",
			Category:    "Tool",
			Description: `Index every post and user of the database again.`,
		},
	}
}
