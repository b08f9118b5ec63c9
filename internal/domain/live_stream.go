package domain

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/crypto"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	maxStreamTitleLength       = 100
	maxStreamDescriptionLength = 500
)

type LiveStreamDomain interface {
	Start(context.Context, *model.StartStreamRequest) (*model.StartStreamResponse, error)
	End(context.Context, *model.EndStreamRequest) (*model.EndStreamResponse, error)
	GetLive(context.Context, *model.GetLiveStreamsRequest) (*model.GetLiveStreamsResponse, error)
	Join(context.Context, *model.JoinStreamRequest) (*model.JoinStreamResponse, error)
}

type liveStreamDomain struct {
	streamRepo   repository.LiveStreamRepository
	userRepo     repository.UserRepository
	roleVerifier *common.GlobalRoleVerifier
}

func NewLiveStreamDomain(
	streamRepo repository.LiveStreamRepository,
	userRepo repository.UserRepository,
) *liveStreamDomain {
	return &liveStreamDomain{
		streamRepo:   streamRepo,
		userRepo:     userRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *liveStreamDomain) Start(
	ctx context.Context, req *model.StartStreamRequest,
) (*model.StartStreamResponse, error) {
	user, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errorx.New(errorx.BadRequest, "Stream title is required")
	}

	if utf8.RuneCountInString(title) > maxStreamTitleLength {
		return nil, errorx.New(errorx.BadRequest, "Stream title is too long (at most %d characters)", maxStreamTitleLength)
	}

	if utf8.RuneCountInString(req.Description) > maxStreamDescriptionLength {
		return nil, errorx.New(errorx.BadRequest,
			"Stream description is too long (at most %d characters)", maxStreamDescriptionLength)
	}

	key, err := crypto.RandomSHA256()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate stream key: %v", err)
		return nil, errorx.Unknown
	}

	stream := &entity.LiveStream{
		Base:        entity.Base{ID: newID()},
		UserID:      user.ID,
		Title:       title,
		Description: req.Description,
		StreamKey:   key,
		IsLive:      true,
		StartedAt:   time.Now(),
	}

	if err := d.streamRepo.Create(ctx, stream); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create stream: %v", err)
		return nil, errorx.Unknown
	}

	// Only the owner ever sees the stream key.
	return &model.StartStreamResponse{
		Stream: model.ConvertLiveStream(stream, model.ConvertShortUser(user), true),
	}, nil
}

func (d *liveStreamDomain) End(
	ctx context.Context, req *model.EndStreamRequest,
) (*model.EndStreamResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := d.getStream(ctx, req.StreamID)
	if err != nil {
		return nil, err
	}

	if stream.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only owner can end this stream")
	}

	if !stream.IsLive {
		return nil, errorx.New(errorx.InvalidState, "Stream already ended")
	}

	if err := d.streamRepo.End(ctx, stream.ID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "Stream already ended")
		}

		xcontext.Logger(ctx).Errorf("Cannot end stream: %v", err)
		return nil, errorx.Unknown
	}

	ended, err := d.getStream(ctx, stream.ID)
	if err != nil {
		return nil, err
	}

	clientStream, err := d.convert(ctx, ended, true)
	if err != nil {
		return nil, err
	}

	return &model.EndStreamResponse{Stream: clientStream}, nil
}

func (d *liveStreamDomain) GetLive(
	ctx context.Context, req *model.GetLiveStreamsRequest,
) (*model.GetLiveStreamsResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	streams, err := d.streamRepo.GetLive(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get live streams: %v", err)
		return nil, errorx.Unknown
	}

	clientStreams := []model.LiveStream{}
	if len(streams) == 0 {
		return &model.GetLiveStreamsResponse{Streams: clientStreams}, nil
	}

	userIDs := []string{}
	for _, s := range streams {
		userIDs = append(userIDs, s.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stream owners: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]model.ShortUser{}
	for i := range users {
		userMap[users[i].ID] = model.ConvertShortUser(&users[i])
	}

	for i := range streams {
		clientStreams = append(clientStreams,
			model.ConvertLiveStream(&streams[i], userMap[streams[i].UserID], false))
	}

	return &model.GetLiveStreamsResponse{Streams: clientStreams}, nil
}

func (d *liveStreamDomain) Join(
	ctx context.Context, req *model.JoinStreamRequest,
) (*model.JoinStreamResponse, error) {
	if _, err := d.roleVerifier.VerifyActive(ctx); err != nil {
		return nil, err
	}

	stream, err := d.getStream(ctx, req.StreamID)
	if err != nil {
		return nil, err
	}

	if !stream.IsLive {
		return nil, errorx.New(errorx.InvalidState, "Stream already ended")
	}

	if err := d.streamRepo.IncreaseViewers(ctx, stream.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase viewers: %v", err)
		return nil, errorx.Unknown
	}
	stream.ViewersCount++

	clientStream, err := d.convert(ctx, stream, false)
	if err != nil {
		return nil, err
	}

	return &model.JoinStreamResponse{Stream: clientStream}, nil
}

func (d *liveStreamDomain) getStream(ctx context.Context, id string) (*entity.LiveStream, error) {
	stream, err := d.streamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found stream")
		}

		xcontext.Logger(ctx).Errorf("Cannot get stream: %v", err)
		return nil, errorx.Unknown
	}

	return stream, nil
}

func (d *liveStreamDomain) convert(
	ctx context.Context, stream *entity.LiveStream, includeKey bool,
) (model.LiveStream, error) {
	user, err := d.userRepo.GetByID(ctx, stream.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stream owner: %v", err)
		return model.LiveStream{}, errorx.Unknown
	}

	return model.ConvertLiveStream(stream, model.ConvertShortUser(user), includeKey), nil
}
