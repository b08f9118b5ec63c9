package domain

import (
	"context"

	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

const reindexBatchSize = 200

type Reindexer struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	searchIndex search.Index
}

func NewReindexer(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	searchIndex search.Index,
) *Reindexer {
	return &Reindexer{userRepo: userRepo, postRepo: postRepo, searchIndex: searchIndex}
}

// Run indexes every user and every visible post again. It returns the number
// of indexed users and posts.
func (r *Reindexer) Run(ctx context.Context) (int, int, error) {
	var users, posts int

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = r.reindexUsers(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		posts, err = r.reindexPosts(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	return users, posts, nil
}

func (r *Reindexer) reindexUsers(ctx context.Context) (int, error) {
	count := 0
	for offset := 0; ; offset += reindexBatchSize {
		users, err := r.userRepo.GetList(ctx, offset, reindexBatchSize)
		if err != nil {
			return count, err
		}

		for _, user := range users {
			data := search.UserData{Username: user.Username, Bio: user.Bio}
			if err := r.searchIndex.IndexUser(ctx, user.ID, data); err != nil {
				return count, err
			}
			count++
		}

		if len(users) < reindexBatchSize {
			return count, nil
		}
	}
}

func (r *Reindexer) reindexPosts(ctx context.Context) (int, error) {
	usernames := map[string]string{}

	count := 0
	for offset := 0; ; offset += reindexBatchSize {
		posts, err := r.postRepo.GetList(ctx, offset, reindexBatchSize)
		if err != nil {
			return count, err
		}

		if err := r.loadUsernames(ctx, posts, usernames); err != nil {
			return count, err
		}

		for _, post := range posts {
			data := search.PostData{Content: post.Content, Author: usernames[post.AuthorID]}
			if err := r.searchIndex.IndexPost(ctx, post.ID, data); err != nil {
				return count, err
			}
			count++
		}

		xcontext.Logger(ctx).Debugf("Reindexed %d posts", count)
		if len(posts) < reindexBatchSize {
			return count, nil
		}
	}
}

func (r *Reindexer) loadUsernames(ctx context.Context, posts []entity.Post, usernames map[string]string) error {
	missing := []string{}
	for _, post := range posts {
		if _, ok := usernames[post.AuthorID]; !ok {
			missing = append(missing, post.AuthorID)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	users, err := r.userRepo.GetByIDs(ctx, missing)
	if err != nil {
		return err
	}

	for _, user := range users {
		usernames[user.ID] = user.Username
	}

	return nil
}
