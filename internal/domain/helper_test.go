package domain

import (
	"context"

	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/testutil"
	"github.com/ywitter/backend/pkg/xcontext"
)

func newTestPostDomain() *postDomain {
	return NewPostDomain(
		repository.NewPostRepository(),
		repository.NewUserRepository(),
		repository.NewFollowRepository(),
		repository.NewHashtagRepository(),
		repository.NewNotificationRepository(),
		repository.NewLikeRepository(),
		repository.NewRetweetRepository(),
		&testutil.MockSearchIndex{},
		event.NewEmitter(&testutil.MockPublisher{}),
	)
}

func getNotificationsByPostID(ctx context.Context, postID string) []entity.Notification {
	var result []entity.Notification
	if err := xcontext.DB(ctx).Find(&result, "post_id=?", postID).Error; err != nil {
		panic(err)
	}

	return result
}

func getPost(ctx context.Context, id string) entity.Post {
	var result entity.Post
	if err := xcontext.DB(ctx).Unscoped().Take(&result, "id=?", id).Error; err != nil {
		panic(err)
	}

	return result
}

type mockNotificationRepository struct {
	repository.NotificationRepository

	CreateManyFunc func(ctx context.Context, data []entity.Notification) error
}

func (m *mockNotificationRepository) CreateMany(ctx context.Context, data []entity.Notification) error {
	if m.CreateManyFunc != nil {
		return m.CreateManyFunc(ctx, data)
	}

	return m.NotificationRepository.CreateMany(ctx, data)
}

type mockPollRepository struct {
	repository.PollRepository

	IncreaseVotesFunc func(ctx context.Context, optionID string) error
}

func (m *mockPollRepository) IncreaseVotes(ctx context.Context, optionID string) error {
	if m.IncreaseVotesFunc != nil {
		return m.IncreaseVotesFunc(ctx, optionID)
	}

	return m.PollRepository.IncreaseVotes(ctx, optionID)
}

func countRows(ctx context.Context, model any, query string, args ...any) int64 {
	var count int64
	if err := xcontext.DB(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		panic(err)
	}

	return count
}
