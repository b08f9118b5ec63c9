package domain

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PollDomain interface {
	Create(context.Context, *model.CreatePollRequest) (*model.CreatePollResponse, error)
	Vote(context.Context, *model.VotePollRequest) (*model.VotePollResponse, error)
	Get(context.Context, *model.GetPollRequest) (*model.GetPollResponse, error)
}

type pollDomain struct {
	pollRepo     repository.PollRepository
	postRepo     repository.PostRepository
	roleVerifier *common.GlobalRoleVerifier
	writer       *postWriter
	presenter    *postPresenter
}

func NewPollDomain(
	pollRepo repository.PollRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	hashtagRepo repository.HashtagRepository,
	notificationRepo repository.NotificationRepository,
	likeRepo repository.LikeRepository,
	retweetRepo repository.RetweetRepository,
	searchIndex search.Index,
	emitter event.Emitter,
) *pollDomain {
	return &pollDomain{
		pollRepo:     pollRepo,
		postRepo:     postRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
		writer: newPostWriter(
			postRepo, userRepo, followRepo, hashtagRepo, notificationRepo, searchIndex, emitter),
		presenter: newPostPresenter(userRepo, followRepo, likeRepo, retweetRepo),
	}
}

func (d *pollDomain) Create(
	ctx context.Context, req *model.CreatePollRequest,
) (*model.CreatePollResponse, error) {
	author, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	question := strings.TrimSpace(req.Question)
	if err := checkPostContent(ctx, question, false); err != nil {
		return nil, err
	}

	options, err := checkPollOptions(ctx, req.Options)
	if err != nil {
		return nil, err
	}

	duration, err := checkPollDuration(ctx, req.DurationHours)
	if err != nil {
		return nil, err
	}

	post := &entity.Post{
		Base:      entity.Base{ID: newID()},
		AuthorID:  author.ID,
		Content:   question,
		MediaType: entity.MediaPoll,
	}

	now := time.Now()
	poll := &entity.Poll{
		Base:     entity.Base{ID: newID()},
		PostID:   post.ID,
		Question: question,
		EndTime:  now.Add(duration),
	}

	pollOptions := []entity.PollOption{}
	for i, text := range options {
		pollOptions = append(pollOptions, entity.PollOption{
			Base:     entity.Base{ID: newID()},
			PollID:   poll.ID,
			Text:     text,
			Position: i,
		})
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.writer.create(ctx, post); err != nil {
		return nil, err
	}

	if err := d.pollRepo.Create(ctx, poll, pollOptions); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create poll: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit poll: %v", err)
		return nil, errorx.Unknown
	}

	d.writer.afterCreate(ctx, post, author)

	clientPost, err := d.presenter.presentOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.CreatePollResponse{
		Post: clientPost,
		Poll: model.ConvertPoll(poll, pollOptions, "", now),
	}, nil
}

func (d *pollDomain) Vote(
	ctx context.Context, req *model.VotePollRequest,
) (*model.VotePollResponse, error) {
	user, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	poll, err := d.getVisiblePoll(ctx, req.PollID)
	if err != nil {
		return nil, err
	}

	if poll.IsClosed(time.Now()) {
		return nil, errorx.New(errorx.InvalidState, "Poll has ended")
	}

	_, err = d.pollRepo.GetVote(ctx, user.ID, poll.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You have already voted")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get vote: %v", err)
		return nil, errorx.Unknown
	}

	option, err := d.pollRepo.GetOption(ctx, req.OptionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get poll option: %v", err)
		return nil, errorx.Unknown
	}

	if err != nil || option.PollID != poll.ID {
		return nil, errorx.New(errorx.BadRequest, "Option does not belong to poll")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The primary key of the vote rejects a concurrent second vote.
	err = d.pollRepo.CreateVote(ctx, &entity.PollVote{
		UserID:   user.ID,
		PollID:   poll.ID,
		OptionID: option.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil, errorx.New(errorx.AlreadyExists, "You have already voted")
		}

		xcontext.Logger(ctx).Errorf("Cannot create vote: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.pollRepo.IncreaseVotes(ctx, option.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase votes: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit vote: %v", err)
		return nil, errorx.Unknown
	}

	clientPoll, err := d.convertPoll(ctx, poll)
	if err != nil {
		return nil, err
	}

	return &model.VotePollResponse{Poll: clientPoll}, nil
}

func (d *pollDomain) Get(
	ctx context.Context, req *model.GetPollRequest,
) (*model.GetPollResponse, error) {
	poll, err := d.getVisiblePoll(ctx, req.PollID)
	if err != nil {
		return nil, err
	}

	clientPoll, err := d.convertPoll(ctx, poll)
	if err != nil {
		return nil, err
	}

	return &model.GetPollResponse{Poll: clientPoll}, nil
}

func (d *pollDomain) getVisiblePoll(ctx context.Context, pollID string) (*entity.Poll, error) {
	poll, err := d.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found poll")
		}

		xcontext.Logger(ctx).Errorf("Cannot get poll: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.presenter.visiblePost(ctx, d.postRepo, poll.PostID); err != nil {
		return nil, err
	}

	return poll, nil
}

func (d *pollDomain) convertPoll(ctx context.Context, poll *entity.Poll) (model.Poll, error) {
	options, err := d.pollRepo.GetOptions(ctx, poll.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get poll options: %v", err)
		return model.Poll{}, errorx.Unknown
	}

	votedOptionID := ""
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		vote, err := d.pollRepo.GetVote(ctx, userID, poll.ID)
		switch {
		case err == nil:
			votedOptionID = vote.OptionID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			xcontext.Logger(ctx).Errorf("Cannot get vote: %v", err)
			return model.Poll{}, errorx.Unknown
		}
	}

	return model.ConvertPoll(poll, options, votedOptionID, time.Now()), nil
}

func checkPollOptions(ctx context.Context, options []string) ([]string, error) {
	cfg := xcontext.Configs(ctx).Poll
	if len(options) < cfg.MinOptions || len(options) > cfg.MaxOptions {
		return nil, errorx.New(errorx.BadRequest,
			"A poll needs between %d and %d options", cfg.MinOptions, cfg.MaxOptions)
	}

	result := []string{}
	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			return nil, errorx.New(errorx.BadRequest, "Poll option cannot be empty")
		}

		if utf8.RuneCountInString(option) > cfg.MaxOptionLength {
			return nil, errorx.New(errorx.BadRequest,
				"Poll option is too long (at most %d characters)", cfg.MaxOptionLength)
		}

		result = append(result, option)
	}

	return result, nil
}

func checkPollDuration(ctx context.Context, hours int) (time.Duration, error) {
	cfg := xcontext.Configs(ctx).Poll
	if hours == 0 {
		return cfg.DefaultDuration, nil
	}

	duration := time.Duration(hours) * time.Hour
	if hours < 1 || duration > cfg.MaxDuration {
		return 0, errorx.New(errorx.BadRequest,
			"Poll duration must be between 1 and %d hours", int(cfg.MaxDuration/time.Hour))
	}

	return duration, nil
}
