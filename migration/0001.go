package migration

import (
	"context"

	"github.com/ywitter/backend/pkg/xcontext"
)

// migrate0001 recomputes the reply counters from the reply rows.
func migrate0001(ctx context.Context) error {
	return xcontext.DB(ctx).Exec(`
		UPDATE posts SET reply_count = (
			SELECT COUNT(*) FROM posts AS replies
			WHERE replies.reply_to_id = posts.id AND replies.deleted_at IS NULL
		)`).Error
}
