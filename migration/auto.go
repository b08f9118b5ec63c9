package migration

import (
	"context"

	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.UserSecurity{},
		&entity.Follow{},
		&entity.Post{},
		&entity.Hashtag{},
		&entity.PostHashtag{},
		&entity.Draft{},
		&entity.Like{},
		&entity.Retweet{},
		&entity.Reaction{},
		&entity.Poll{},
		&entity.PollOption{},
		&entity.PollVote{},
		&entity.Notification{},
		&entity.Report{},
		&entity.Message{},
		&entity.LiveStream{},
		&entity.Advertisement{},
		&entity.AdImpression{},
		&entity.AdClick{},
		&entity.Webhook{},
		&entity.Migration{},
	)
}
