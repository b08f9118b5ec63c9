package domain

import (
	"context"
	"errors"
	"strings"

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

type DraftDomain interface {
	Save(context.Context, *model.SaveDraftRequest) (*model.SaveDraftResponse, error)
	Update(context.Context, *model.UpdateDraftRequest) (*model.UpdateDraftResponse, error)
	GetList(context.Context, *model.GetDraftsRequest) (*model.GetDraftsResponse, error)
	Delete(context.Context, *model.DeleteDraftRequest) (*model.DeleteDraftResponse, error)
	Publish(context.Context, *model.PublishDraftRequest) (*model.PublishDraftResponse, error)
}

type draftDomain struct {
	draftRepo    repository.DraftRepository
	roleVerifier *common.GlobalRoleVerifier
	writer       *postWriter
	presenter    *postPresenter
}

func NewDraftDomain(
	draftRepo repository.DraftRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	hashtagRepo repository.HashtagRepository,
	notificationRepo repository.NotificationRepository,
	likeRepo repository.LikeRepository,
	retweetRepo repository.RetweetRepository,
	searchIndex search.Index,
	emitter event.Emitter,
) *draftDomain {
	return &draftDomain{
		draftRepo:    draftRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
		writer: newPostWriter(
			postRepo, userRepo, followRepo, hashtagRepo, notificationRepo, searchIndex, emitter),
		presenter: newPostPresenter(userRepo, followRepo, likeRepo, retweetRepo),
	}
}

func (d *draftDomain) Save(
	ctx context.Context, req *model.SaveDraftRequest,
) (*model.SaveDraftResponse, error) {
	user, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	draft := &entity.Draft{
		Base:          entity.Base{ID: newID()},
		UserID:        user.ID,
		Content:       strings.TrimSpace(req.Content),
		MediaFilename: req.MediaFilename,
	}

	if err := checkDraft(ctx, draft, req.MediaType); err != nil {
		return nil, err
	}

	if err := d.draftRepo.Create(ctx, draft); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create draft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SaveDraftResponse{Draft: model.ConvertDraft(draft)}, nil
}

func (d *draftDomain) Update(
	ctx context.Context, req *model.UpdateDraftRequest,
) (*model.UpdateDraftResponse, error) {
	user, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := d.getOwnDraft(ctx, req.ID, user.ID)
	if err != nil {
		return nil, err
	}

	draft.Content = strings.TrimSpace(req.Content)
	draft.MediaFilename = req.MediaFilename
	if err := checkDraft(ctx, draft, req.MediaType); err != nil {
		return nil, err
	}

	if err := d.draftRepo.Update(ctx, draft); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update draft: %v", err)
		return nil, errorx.Unknown
	}

	updated, err := d.draftRepo.GetByID(ctx, draft.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get draft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateDraftResponse{Draft: model.ConvertDraft(updated)}, nil
}

func (d *draftDomain) GetList(
	ctx context.Context, req *model.GetDraftsRequest,
) (*model.GetDraftsResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	drafts, err := d.draftRepo.GetListByUserID(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get drafts: %v", err)
		return nil, errorx.Unknown
	}

	clientDrafts := []model.Draft{}
	for i := range drafts {
		clientDrafts = append(clientDrafts, model.ConvertDraft(&drafts[i]))
	}

	return &model.GetDraftsResponse{Drafts: clientDrafts}, nil
}

func (d *draftDomain) Delete(
	ctx context.Context, req *model.DeleteDraftRequest,
) (*model.DeleteDraftResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := d.getOwnDraft(ctx, req.ID, userID); err != nil {
		return nil, err
	}

	if err := d.draftRepo.Delete(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete draft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteDraftResponse{}, nil
}

// Publish turns the draft into a post. The draft is gone once the post exists.
func (d *draftDomain) Publish(
	ctx context.Context, req *model.PublishDraftRequest,
) (*model.PublishDraftResponse, error) {
	author, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	draft, err := d.getOwnDraft(ctx, req.ID, author.ID)
	if err != nil {
		return nil, err
	}

	if err := checkPostContent(ctx, draft.Content, draft.MediaType != entity.MediaNone); err != nil {
		return nil, err
	}

	post := &entity.Post{
		Base:          entity.Base{ID: newID()},
		AuthorID:      author.ID,
		Content:       draft.Content,
		MediaType:     draft.MediaType,
		MediaFilename: draft.MediaFilename,
	}

	if err := d.writer.create(ctx, post); err != nil {
		return nil, err
	}

	if err := d.draftRepo.Delete(ctx, draft.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found draft")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete draft: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit draft publication: %v", err)
		return nil, errorx.Unknown
	}

	d.writer.afterCreate(ctx, post, author)

	clientPost, err := d.presenter.presentOne(ctx, post)
	if err != nil {
		return nil, err
	}

	return &model.PublishDraftResponse{Post: clientPost}, nil
}

func (d *draftDomain) getOwnDraft(ctx context.Context, id, userID string) (*entity.Draft, error) {
	draft, err := d.draftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found draft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get draft: %v", err)
		return nil, errorx.Unknown
	}

	if draft.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Only owner can access this draft")
	}

	return draft, nil
}

func checkDraft(ctx context.Context, draft *entity.Draft, mediaType string) error {
	var err error
	draft.MediaType, err = checkPostMedia(mediaType, draft.MediaFilename)
	if err != nil {
		return err
	}

	return checkPostContent(ctx, draft.Content, draft.MediaType != entity.MediaNone)
}
