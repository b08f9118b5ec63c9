package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/enum"
	"github.com/ywitter/backend/pkg/xcontext"
)

const moderatorRole = "moderator"

func (s *srv) startRole(cctx *cli.Context) error {
	s.loadDatabase()
	s.loadRepos()

	user, err := s.userRepo.GetByUsername(s.ctx, cctx.String("username"))
	if err != nil {
		return fmt.Errorf("cannot get user %s: %w", cctx.String("username"), err)
	}

	// The moderator flag is independent of the global role.
	if cctx.String("role") == moderatorRole {
		if err := s.userRepo.UpdateModerator(s.ctx, user.ID, true); err != nil {
			return err
		}

		xcontext.Logger(s.ctx).Infof("Granted moderator to %s", user.Username)
		return nil
	}

	role, err := enum.ToEnum[entity.GlobalRole](cctx.String("role"))
	if err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}

	if err := s.userRepo.UpdateRole(s.ctx, user.ID, role); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Granted %s to %s", role, user.Username)
	return nil
}
