package domain

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/enum"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	maxAdTitleLength   = 100
	maxAdContentLength = 500
)

type AdvertisementDomain interface {
	Create(context.Context, *model.CreateAdRequest) (*model.CreateAdResponse, error)
	Approve(context.Context, *model.ApproveAdRequest) (*model.ApproveAdResponse, error)
	Reject(context.Context, *model.RejectAdRequest) (*model.RejectAdResponse, error)
	GetList(context.Context, *model.GetAdsRequest) (*model.GetAdsResponse, error)
	GetActive(context.Context, *model.GetActiveAdsRequest) (*model.GetActiveAdsResponse, error)
	RecordImpression(context.Context, *model.RecordAdImpressionRequest) (*model.RecordAdImpressionResponse, error)
	RecordClick(context.Context, *model.RecordAdClickRequest) (*model.RecordAdClickResponse, error)
}

type advertisementDomain struct {
	adRepo       repository.AdvertisementRepository
	roleVerifier *common.GlobalRoleVerifier
}

func NewAdvertisementDomain(
	adRepo repository.AdvertisementRepository,
	userRepo repository.UserRepository,
) *advertisementDomain {
	return &advertisementDomain{
		adRepo:       adRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *advertisementDomain) Create(
	ctx context.Context, req *model.CreateAdRequest,
) (*model.CreateAdResponse, error) {
	moderator, err := d.roleVerifier.VerifyModerator(ctx)
	if err != nil {
		return nil, err
	}

	ad := &entity.Advertisement{
		Base:      entity.Base{ID: newID()},
		CreatedBy: moderator.ID,
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
		Budget:    req.Budget,
		Status:    entity.AdPending,
	}

	if ad.Title == "" || ad.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Ad title and content are required")
	}

	if utf8.RuneCountInString(ad.Title) > maxAdTitleLength ||
		utf8.RuneCountInString(ad.Content) > maxAdContentLength {
		return nil, errorx.New(errorx.BadRequest,
			"Ad title or content is too long (at most %d and %d characters)",
			maxAdTitleLength, maxAdContentLength)
	}

	if !common.IsHTTPURL(ad.TargetURL) {
		return nil, errorx.New(errorx.BadRequest, "Invalid target url")
	}

	if ad.ImageURL != "" && !common.IsHTTPURL(ad.ImageURL) {
		return nil, errorx.New(errorx.BadRequest, "Invalid image url")
	}

	if ad.Budget <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Budget must be positive")
	}

	ad.StartDate, err = dateparse.ParseAny(req.StartDate)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse start date: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid start date")
	}

	ad.EndDate, err = dateparse.ParseAny(req.EndDate)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse end date: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid end date")
	}

	if !ad.StartDate.Before(ad.EndDate) {
		return nil, errorx.New(errorx.BadRequest, "Start date must be before end date")
	}

	if err := d.adRepo.Create(ctx, ad); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create ad: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateAdResponse{Ad: model.ConvertAdvertisement(ad)}, nil
}

func (d *advertisementDomain) Approve(
	ctx context.Context, req *model.ApproveAdRequest,
) (*model.ApproveAdResponse, error) {
	if err := d.review(ctx, req.ID, entity.AdActive); err != nil {
		return nil, err
	}

	return &model.ApproveAdResponse{}, nil
}

func (d *advertisementDomain) Reject(
	ctx context.Context, req *model.RejectAdRequest,
) (*model.RejectAdResponse, error) {
	if err := d.review(ctx, req.ID, entity.AdRejected); err != nil {
		return nil, err
	}

	return &model.RejectAdResponse{}, nil
}

// review moves a pending ad to status.
func (d *advertisementDomain) review(ctx context.Context, id string, status entity.AdStatus) error {
	if _, err := d.roleVerifier.VerifyModerator(ctx); err != nil {
		return err
	}

	if _, err := d.getAd(ctx, id); err != nil {
		return err
	}

	if err := d.adRepo.UpdateStatus(ctx, id, entity.AdPending, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.InvalidState, "Only pending ads can be reviewed")
		}

		xcontext.Logger(ctx).Errorf("Cannot update ad status: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *advertisementDomain) GetList(
	ctx context.Context, req *model.GetAdsRequest,
) (*model.GetAdsResponse, error) {
	if _, err := d.roleVerifier.VerifyModerator(ctx); err != nil {
		return nil, err
	}

	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	var status entity.AdStatus
	if req.Status != "" {
		var err error
		status, err = enum.ToEnum[entity.AdStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid ad status")
		}
	}

	ads, err := d.adRepo.GetList(ctx, status, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ads: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetAdsResponse{Ads: convertAds(ads)}, nil
}

func (d *advertisementDomain) GetActive(
	ctx context.Context, req *model.GetActiveAdsRequest,
) (*model.GetActiveAdsResponse, error) {
	if err := checkPagination(ctx, 0, &req.Limit); err != nil {
		return nil, err
	}

	ads, err := d.adRepo.GetActive(ctx, time.Now(), req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active ads: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetActiveAdsResponse{Ads: convertAds(ads)}, nil
}

func (d *advertisementDomain) RecordImpression(
	ctx context.Context, req *model.RecordAdImpressionRequest,
) (*model.RecordAdImpressionResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	ad, err := d.getRunningAd(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.adRepo.CreateImpression(ctx, &entity.AdImpression{
		Base:   entity.Base{ID: newID()},
		AdID:   ad.ID,
		UserID: userID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record impression: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit impression: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RecordAdImpressionResponse{}, nil
}

func (d *advertisementDomain) RecordClick(
	ctx context.Context, req *model.RecordAdClickRequest,
) (*model.RecordAdClickResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	ad, err := d.getRunningAd(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.adRepo.CreateClick(ctx, &entity.AdClick{
		Base:   entity.Base{ID: newID()},
		AdID:   ad.ID,
		UserID: userID,
	}, xcontext.Configs(ctx).Ad.CostPerClick)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record click: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit click: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RecordAdClickResponse{TargetURL: ad.TargetURL}, nil
}

func (d *advertisementDomain) getAd(ctx context.Context, id string) (*entity.Advertisement, error) {
	ad, err := d.adRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found ad")
		}

		xcontext.Logger(ctx).Errorf("Cannot get ad: %v", err)
		return nil, errorx.Unknown
	}

	return ad, nil
}

// getRunningAd returns the ad if it is active, inside its date window and not
// out of budget.
func (d *advertisementDomain) getRunningAd(ctx context.Context, id string) (*entity.Advertisement, error) {
	ad, err := d.getAd(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if ad.Status != entity.AdActive || now.Before(ad.StartDate) || !now.Before(ad.EndDate) ||
		ad.Spent >= ad.Budget {
		return nil, errorx.New(errorx.InvalidState, "Ad is not running")
	}

	return ad, nil
}

func convertAds(ads []entity.Advertisement) []model.Advertisement {
	result := []model.Advertisement{}
	for i := range ads {
		result = append(result, model.ConvertAdvertisement(&ads[i]))
	}

	return result
}
