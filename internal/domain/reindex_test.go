package domain

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/testutil"
)

func TestReindexer_Run(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	var mutex sync.Mutex
	posts := map[string]search.PostData{}
	users := map[string]search.UserData{}
	index := &testutil.MockSearchIndex{
		IndexPostFunc: func(ctx context.Context, id string, data search.PostData) error {
			mutex.Lock()
			defer mutex.Unlock()
			posts[id] = data
			return nil
		},
		IndexUserFunc: func(ctx context.Context, id string, data search.UserData) error {
			mutex.Lock()
			defer mutex.Unlock()
			users[id] = data
			return nil
		},
	}

	r := NewReindexer(repository.NewUserRepository(), repository.NewPostRepository(), index)
	userCount, postCount, err := r.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, len(testutil.Users), userCount)
	require.Equal(t, len(testutil.Posts), postCount)
	require.Len(t, users, len(testutil.Users))
	require.Equal(t, testutil.User1.Username, posts[testutil.Post1.ID].Author)
	require.Equal(t, testutil.Post1.Content, posts[testutil.Post1.ID].Content)
	require.Equal(t, testutil.User3.Username, posts[testutil.Post3.ID].Author)
}
