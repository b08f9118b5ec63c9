package main

import (
	"github.com/urfave/cli/v2"
	"github.com/ywitter/backend/internal/domain"
	"github.com/ywitter/backend/pkg/xcontext"
)

func (s *srv) startReindex(*cli.Context) error {
	s.loadDatabase()
	s.loadSearchIndex()
	s.loadRepos()

	users, posts, err := domain.NewReindexer(s.userRepo, s.postRepo, s.searchIndex).Run(s.ctx)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Reindexed %d users and %d posts", users, posts)
	return nil
}
