package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// postWriter holds the write path of posts shared by posts, polls and drafts.
// Its methods join the transaction of the caller.
type postWriter struct {
	postRepo         repository.PostRepository
	userRepo         repository.UserRepository
	followRepo       repository.FollowRepository
	hashtagRepo      repository.HashtagRepository
	notificationRepo repository.NotificationRepository
	searchIndex      search.Index
	emitter          event.Emitter
}

func newPostWriter(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	hashtagRepo repository.HashtagRepository,
	notificationRepo repository.NotificationRepository,
	searchIndex search.Index,
	emitter event.Emitter,
) *postWriter {
	return &postWriter{
		postRepo:         postRepo,
		userRepo:         userRepo,
		followRepo:       followRepo,
		hashtagRepo:      hashtagRepo,
		notificationRepo: notificationRepo,
		searchIndex:      searchIndex,
		emitter:          emitter,
	}
}

// create inserts the post with its derived rows: hashtag links, mention
// notifications and the reply counter of the parent. Replying needs the
// parent to be visible to the author.
func (w *postWriter) create(ctx context.Context, post *entity.Post) error {
	if post.ReplyToID.Valid {
		parent, err := w.postRepo.GetByID(ctx, post.ReplyToID.String)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.NotFound, "Not found reply post")
			}

			xcontext.Logger(ctx).Errorf("Cannot get reply post: %v", err)
			return errorx.Unknown
		}

		if err := checkVisible(ctx, w.userRepo, w.followRepo, parent); err != nil {
			return err
		}
	}

	if err := w.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return errorx.Unknown
	}

	if post.ReplyToID.Valid {
		err := w.postRepo.UpdateCounter(ctx, post.ReplyToID.String, repository.ReplyCounter, 1)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase reply count: %v", err)
			return errorx.Unknown
		}
	}

	if err := w.syncHashtags(ctx, post); err != nil {
		return err
	}

	return w.notifyMentions(ctx, post)
}

// afterCreate runs the side effects which must only happen once the post is
// committed.
func (w *postWriter) afterCreate(ctx context.Context, post *entity.Post, author *entity.User) {
	w.index(ctx, post, author)
	w.emitter.Emit(ctx, entity.EventPostCreated, []string{post.AuthorID}, event.PostData{
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		Content:  post.Content,
	})
}

func (w *postWriter) index(ctx context.Context, post *entity.Post, author *entity.User) {
	err := w.searchIndex.IndexPost(ctx, post.ID, search.PostData{
		Content: post.Content,
		Author:  author.Username,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot index post %s: %v", post.ID, err)
	}
}

// syncHashtags replaces the hashtag links of the post by the hashtags found in
// its content.
func (w *postWriter) syncHashtags(ctx context.Context, post *entity.Post) error {
	if err := w.hashtagRepo.UnlinkPost(ctx, post.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlink hashtags: %v", err)
		return errorx.Unknown
	}

	names := common.ExtractHashtags(post.Content, xcontext.Configs(ctx).Post.MaxHashtagLength)
	if len(names) == 0 {
		return nil
	}

	hashtags, err := w.hashtagRepo.GetOrCreate(ctx, names)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get or create hashtags: %v", err)
		return errorx.Unknown
	}

	ids := []string{}
	for _, h := range hashtags {
		ids = append(ids, h.ID)
	}

	if err := w.hashtagRepo.LinkPost(ctx, post.ID, ids); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot link hashtags: %v", err)
		return errorx.Unknown
	}

	return nil
}

// notifyMentions creates a mention notification for every existing user
// mentioned in the post except its author. Unknown usernames are ignored.
func (w *postWriter) notifyMentions(ctx context.Context, post *entity.Post) error {
	usernames := common.ExtractMentions(post.Content)
	if len(usernames) == 0 {
		return nil
	}

	users, err := w.userRepo.GetByUsernames(ctx, usernames)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get mentioned users: %v", err)
		return errorx.Unknown
	}

	place := "post"
	if post.ReplyToID.Valid {
		place = "reply"
	}

	preview := common.Preview(post.Content, xcontext.Configs(ctx).Post.MentionPreviewLength)
	message := fmt.Sprintf(`You were mentioned in a %s: "%s"`, place, preview)

	notifications := []entity.Notification{}
	for _, u := range users {
		if u.ID == post.AuthorID {
			continue
		}

		notifications = append(notifications, entity.Notification{
			Base:    entity.Base{ID: newID()},
			UserID:  u.ID,
			Type:    entity.NotificationMention,
			Message: message,
			ActorID: sql.NullString{Valid: true, String: post.AuthorID},
			PostID:  sql.NullString{Valid: true, String: post.ID},
		})
	}

	if err := w.notificationRepo.CreateMany(ctx, notifications); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create mention notifications: %v", err)
		return errorx.Unknown
	}

	return nil
}

// delete soft deletes the post. The replies keep pointing to it.
func (w *postWriter) delete(ctx context.Context, post *entity.Post) error {
	if err := w.postRepo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete post: %v", err)
		return errorx.Unknown
	}

	if post.ReplyToID.Valid {
		err := w.postRepo.UpdateCounter(ctx, post.ReplyToID.String, repository.ReplyCounter, -1)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot decrease reply count: %v", err)
			return errorx.Unknown
		}
	}

	if err := w.hashtagRepo.UnlinkPost(ctx, post.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlink hashtags: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (w *postWriter) afterDelete(ctx context.Context, post *entity.Post) {
	if err := w.searchIndex.DeletePost(ctx, post.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete post %s from index: %v", post.ID, err)
	}
}
