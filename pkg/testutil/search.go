package testutil

import (
	"context"

	"github.com/ywitter/backend/internal/domain/search"
)

type MockSearchIndex struct {
	IndexPostFunc   func(ctx context.Context, id string, data search.PostData) error
	IndexUserFunc   func(ctx context.Context, id string, data search.UserData) error
	DeletePostFunc  func(ctx context.Context, id string) error
	SearchPostsFunc func(ctx context.Context, query string, offset, limit int) ([]string, error)
	SearchUsersFunc func(ctx context.Context, query string, offset, limit int) ([]string, error)
}

func (m *MockSearchIndex) IndexPost(ctx context.Context, id string, data search.PostData) error {
	if m.IndexPostFunc != nil {
		return m.IndexPostFunc(ctx, id, data)
	}

	return nil
}

func (m *MockSearchIndex) IndexUser(ctx context.Context, id string, data search.UserData) error {
	if m.IndexUserFunc != nil {
		return m.IndexUserFunc(ctx, id, data)
	}

	return nil
}

func (m *MockSearchIndex) DeletePost(ctx context.Context, id string) error {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, id)
	}

	return nil
}

func (m *MockSearchIndex) SearchPosts(ctx context.Context, query string, offset, limit int) ([]string, error) {
	if m.SearchPostsFunc != nil {
		return m.SearchPostsFunc(ctx, query, offset, limit)
	}

	return nil, nil
}

func (m *MockSearchIndex) SearchUsers(ctx context.Context, query string, offset, limit int) ([]string, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, query, offset, limit)
	}

	return nil, nil
}

func (m *MockSearchIndex) Close() {}
