package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ywitter/backend/config"
	"github.com/ywitter/backend/pkg/logger"
	"github.com/ywitter/backend/pkg/xcontext"
)

func newMemIndex() *bleveIndex {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, config.Configs{})
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	return NewBleveIndex(ctx)
}

func TestBleveIndex_Posts(t *testing.T) {
	ctx := context.Background()
	index := newMemIndex()
	defer index.Close()

	require.NoError(t, index.IndexPost(ctx, "p1", PostData{Content: "golang is fun", Author: "alice"}))
	require.NoError(t, index.IndexPost(ctx, "p2", PostData{Content: "rust is fast", Author: "bob"}))

	ids, err := index.SearchPosts(ctx, "golang", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, ids)

	// Reindexing replaces the old content.
	require.NoError(t, index.IndexPost(ctx, "p1", PostData{Content: "coffee time", Author: "alice"}))
	ids, err = index.SearchPosts(ctx, "golang", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, index.DeletePost(ctx, "p2"))
	ids, err = index.SearchPosts(ctx, "rust", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestBleveIndex_Users(t *testing.T) {
	ctx := context.Background()
	index := newMemIndex()
	defer index.Close()

	require.NoError(t, index.IndexUser(ctx, "u1", UserData{Username: "alice", Bio: "gopher"}))
	require.NoError(t, index.IndexUser(ctx, "u2", UserData{Username: "bob", Bio: "rustacean"}))

	ids, err := index.SearchUsers(ctx, "gopher", 0, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, ids)

	ids, err = index.SearchPosts(ctx, "gopher", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)
}
