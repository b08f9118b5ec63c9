package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/event"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/enum"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultPostReportReason = "post abuse"
	defaultUserReportReason = "user abuse"
)

type ModerationDomain interface {
	ReportPost(context.Context, *model.ReportPostRequest) (*model.ReportPostResponse, error)
	ReportUser(context.Context, *model.ReportUserRequest) (*model.ReportUserResponse, error)
	ResolveReport(context.Context, *model.ResolveReportRequest) (*model.ResolveReportResponse, error)
	GetReports(context.Context, *model.GetReportsRequest) (*model.GetReportsResponse, error)
	BanUser(context.Context, *model.BanUserRequest) (*model.BanUserResponse, error)
	UnbanUser(context.Context, *model.UnbanUserRequest) (*model.UnbanUserResponse, error)
}

type moderationDomain struct {
	reportRepo   repository.ReportRepository
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	roleVerifier *common.GlobalRoleVerifier
	writer       *postWriter
	emitter      event.Emitter
}

func NewModerationDomain(
	reportRepo repository.ReportRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	hashtagRepo repository.HashtagRepository,
	notificationRepo repository.NotificationRepository,
	searchIndex search.Index,
	emitter event.Emitter,
) *moderationDomain {
	return &moderationDomain{
		reportRepo:   reportRepo,
		postRepo:     postRepo,
		userRepo:     userRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
		writer: newPostWriter(
			postRepo, userRepo, followRepo, hashtagRepo, notificationRepo, searchIndex, emitter),
		emitter: emitter,
	}
}

func (d *moderationDomain) ReportPost(
	ctx context.Context, req *model.ReportPostRequest,
) (*model.ReportPostResponse, error) {
	reporter, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	post, err := d.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if post.AuthorID == reporter.ID {
		return nil, errorx.New(errorx.BadRequest, "Cannot report your own post")
	}

	report := &entity.Report{
		Base:           entity.Base{ID: newID()},
		ReporterID:     reporter.ID,
		ReportedUserID: sql.NullString{Valid: true, String: post.AuthorID},
		PostID:         sql.NullString{Valid: true, String: post.ID},
		Reason:         reportReason(req.Reason, defaultPostReportReason),
		Status:         entity.ReportPending,
		PendingKey:     pendingKey(reporter.ID, "post", post.ID),
	}

	if err := d.createReport(ctx, report); err != nil {
		return nil, err
	}

	return &model.ReportPostResponse{Report: model.ConvertReport(report)}, nil
}

func (d *moderationDomain) ReportUser(
	ctx context.Context, req *model.ReportUserRequest,
) (*model.ReportUserResponse, error) {
	reporter, err := d.roleVerifier.VerifyActive(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID == reporter.ID {
		return nil, errorx.New(errorx.BadRequest, "Cannot report yourself")
	}

	reported, err := d.getUser(ctx, req.UserID, "Not found user")
	if err != nil {
		return nil, err
	}

	if reported.IsProtected() {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot report this user")
	}

	report := &entity.Report{
		Base:           entity.Base{ID: newID()},
		ReporterID:     reporter.ID,
		ReportedUserID: sql.NullString{Valid: true, String: reported.ID},
		Reason:         reportReason(req.Reason, defaultUserReportReason),
		Status:         entity.ReportPending,
		PendingKey:     pendingKey(reporter.ID, "user", reported.ID),
	}

	if err := d.createReport(ctx, report); err != nil {
		return nil, err
	}

	return &model.ReportUserResponse{Report: model.ConvertReport(report)}, nil
}

func (d *moderationDomain) ResolveReport(
	ctx context.Context, req *model.ResolveReportRequest,
) (*model.ResolveReportResponse, error) {
	moderator, err := d.roleVerifier.VerifyModerator(ctx)
	if err != nil {
		return nil, err
	}

	decision, err := enum.ToEnum[entity.ReportStatus](req.Decision)
	if err != nil || decision == entity.ReportPending {
		return nil, errorx.New(errorx.BadRequest, "Invalid decision")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	report, err := d.reportRepo.GetByIDForUpdate(ctx, req.ReportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found report")
		}

		xcontext.Logger(ctx).Errorf("Cannot get report: %v", err)
		return nil, errorx.Unknown
	}

	if report.Status != entity.ReportPending {
		return nil, errorx.New(errorx.InvalidState, "Report was already resolved")
	}

	var deletedPost *entity.Post
	if decision == entity.ReportBanned {
		deletedPost, err = d.punish(ctx, report, req.BanAuthor)
		if err != nil {
			return nil, err
		}
	}

	if err := d.reportRepo.Resolve(ctx, report.ID, decision, moderator.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidState, "Report was already resolved")
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve report: %v", err)
		return nil, errorx.Unknown
	}

	resolved, err := d.reportRepo.GetByID(ctx, report.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get report: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit report resolution: %v", err)
		return nil, errorx.Unknown
	}

	if deletedPost != nil {
		d.writer.afterDelete(ctx, deletedPost)
	}

	d.emitter.Emit(ctx, entity.EventReportResolved, []string{report.ReporterID},
		event.ReportData{ReportID: report.ID, Status: string(decision)})

	return &model.ResolveReportResponse{Report: model.ConvertReport(resolved)}, nil
}

// punish removes the reported post, or bans the reported user when the report
// has no post or banAuthor is set. It returns the deleted post if any.
func (d *moderationDomain) punish(
	ctx context.Context, report *entity.Report, banAuthor bool,
) (*entity.Post, error) {
	if report.PostID.Valid && !banAuthor {
		post, err := d.postRepo.GetByIDForUpdate(ctx, report.PostID.String)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found reported post")
			}

			xcontext.Logger(ctx).Errorf("Cannot get reported post: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.writer.delete(ctx, post); err != nil {
			return nil, err
		}

		return post, nil
	}

	if err := d.ban(ctx, report.ReportedUserID.String, "Not found reported user"); err != nil {
		return nil, err
	}

	return nil, nil
}

func (d *moderationDomain) GetReports(
	ctx context.Context, req *model.GetReportsRequest,
) (*model.GetReportsResponse, error) {
	if _, err := d.roleVerifier.VerifyModerator(ctx); err != nil {
		return nil, err
	}

	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	var status entity.ReportStatus
	if req.Status != "" {
		var err error
		status, err = enum.ToEnum[entity.ReportStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid report status")
		}
	}

	reports, err := d.reportRepo.GetList(ctx, status, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reports: %v", err)
		return nil, errorx.Unknown
	}

	clientReports := []model.Report{}
	for i := range reports {
		clientReports = append(clientReports, model.ConvertReport(&reports[i]))
	}

	return &model.GetReportsResponse{Reports: clientReports}, nil
}

func (d *moderationDomain) BanUser(
	ctx context.Context, req *model.BanUserRequest,
) (*model.BanUserResponse, error) {
	moderator, err := d.roleVerifier.VerifyModerator(ctx)
	if err != nil {
		return nil, err
	}

	if moderator.ID == req.UserID {
		return nil, errorx.New(errorx.BadRequest, "Cannot ban yourself")
	}

	if err := d.ban(ctx, req.UserID, "Not found user"); err != nil {
		return nil, err
	}

	return &model.BanUserResponse{}, nil
}

func (d *moderationDomain) UnbanUser(
	ctx context.Context, req *model.UnbanUserRequest,
) (*model.UnbanUserResponse, error) {
	if _, err := d.roleVerifier.VerifyModerator(ctx); err != nil {
		return nil, err
	}

	if _, err := d.getUser(ctx, req.UserID, "Not found user"); err != nil {
		return nil, err
	}

	if err := d.userRepo.UpdateBanned(ctx, req.UserID, false); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unban user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnbanUserResponse{}, nil
}

func (d *moderationDomain) ban(ctx context.Context, userID, notFoundMsg string) error {
	user, err := d.getUser(ctx, userID, notFoundMsg)
	if err != nil {
		return err
	}

	if user.IsProtected() {
		return errorx.New(errorx.PermissionDenied, "Cannot ban this user")
	}

	if err := d.userRepo.UpdateBanned(ctx, user.ID, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ban user: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *moderationDomain) getUser(ctx context.Context, userID, notFoundMsg string) (*entity.User, error) {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, notFoundMsg)
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func (d *moderationDomain) createReport(ctx context.Context, report *entity.Report) error {
	if err := d.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return errorx.New(errorx.AlreadyExists, "Already reported")
		}

		xcontext.Logger(ctx).Errorf("Cannot create report: %v", err)
		return errorx.Unknown
	}

	return nil
}

func reportReason(reason, defaultReason string) string {
	if reason = strings.TrimSpace(reason); reason != "" {
		return reason
	}

	return defaultReason
}

func pendingKey(reporterID, kind, targetID string) sql.NullString {
	return sql.NullString{Valid: true, String: fmt.Sprintf("%s:%s:%s", reporterID, kind, targetID)}
}
