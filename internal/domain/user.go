package domain

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ywitter/backend/internal/common"
	"github.com/ywitter/backend/internal/domain/search"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 6
	maxBioLength      = 500
)

type UserDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	UpdateSettings(context.Context, *model.UpdateSettingsRequest) (*model.UpdateSettingsResponse, error)
	GetPopular(context.Context, *model.GetPopularUsersRequest) (*model.GetPopularUsersResponse, error)
	GetUserPosts(context.Context, *model.GetUserPostsRequest) (*model.GetUserPostsResponse, error)
	Search(context.Context, *model.SearchUsersRequest) (*model.SearchUsersResponse, error)
}

type userDomain struct {
	userRepo     repository.UserRepository
	securityRepo repository.UserSecurityRepository
	followRepo   repository.FollowRepository
	postRepo     repository.PostRepository
	presenter    *postPresenter
	searchIndex  search.Index
}

func NewUserDomain(
	userRepo repository.UserRepository,
	securityRepo repository.UserSecurityRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	retweetRepo repository.RetweetRepository,
	searchIndex search.Index,
) *userDomain {
	return &userDomain{
		userRepo:     userRepo,
		securityRepo: securityRepo,
		followRepo:   followRepo,
		postRepo:     postRepo,
		presenter:    newPostPresenter(userRepo, followRepo, likeRepo, retweetRepo),
		searchIndex:  searchIndex,
	}
}

func (d *userDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if !common.IsValidUsername(req.Username) {
		return nil, errorx.New(errorx.BadRequest,
			"Username must be 3 to 32 letters, digits or underscores")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, errorx.New(errorx.BadRequest, "Invalid email")
	}

	if len(req.Password) < minPasswordLength {
		return nil, errorx.New(errorx.BadRequest,
			"Password is too short (at least %d characters)", minPasswordLength)
	}

	if exists, err := d.userRepo.ExistsByUsername(ctx, req.Username); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check username: %v", err)
		return nil, errorx.Unknown
	} else if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Username already exists")
	}

	if exists, err := d.userRepo.ExistsByEmail(ctx, email); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check email: %v", err)
		return nil, errorx.Unknown
	} else if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:               entity.Base{ID: newID()},
		Username:           req.Username,
		Email:              email,
		PasswordHash:       string(hashed),
		Role:               entity.RoleUser,
		CanReceiveMessages: true,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil, errorx.New(errorx.AlreadyExists, "Username already exists")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	d.index(ctx, user)

	return &model.RegisterResponse{User: model.ConvertUser(user, true)}, nil
}

func (d *userDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	invalidErr := errorx.New(errorx.Unauthenticated, "Invalid username or password")

	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidErr
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalidErr
	}

	if user.IsBanned {
		return nil, errorx.New(errorx.PermissionDenied, "User is banned")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	security, err := getSecurityForUpdate(ctx, d.securityRepo, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if security.TwoFactorEnabled {
		if req.OTP == "" {
			return nil, errorx.New(errorx.TwoFactorRequired, "Two factor code is required")
		}

		if !consumeSecondFactor(security, req.OTP, now) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid two factor code")
		}
	}

	appendLoginRecord(ctx, security, now)
	if err := d.securityRepo.Upsert(ctx, security); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save login history: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit login: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Auth
	accessToken, err := xcontext.TokenEngine(ctx).Generate(cfg.AccessToken.Expiration, model.AccessToken{
		ID:       user.ID,
		Username: user.Username,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken: accessToken,
		User:        model.ConvertUser(user, true),
	}, nil
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	profile, err := d.profile(ctx, user)
	if err != nil {
		return nil, err
	}

	return (*model.GetMeResponse)(profile), nil
}

func (d *userDomain) GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error) {
	user, err := d.getByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	profile, err := d.profile(ctx, user)
	if err != nil {
		return nil, err
	}

	return (*model.GetUserResponse)(profile), nil
}

func (d *userDomain) UpdateSettings(
	ctx context.Context, req *model.UpdateSettingsRequest,
) (*model.UpdateSettingsResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	settings := map[string]any{}
	if req.CanReceiveMessages != nil {
		settings["can_receive_messages"] = *req.CanReceiveMessages
	}

	if req.IsPrivate != nil {
		settings["is_private"] = *req.IsPrivate
	}

	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return nil, errorx.New(errorx.BadRequest, "Bio is too long (at most %d characters)", maxBioLength)
		}

		settings["bio"] = bio
	}

	if req.Avatar != nil {
		if *req.Avatar != "" && !common.IsHTTPURL(*req.Avatar) {
			return nil, errorx.New(errorx.BadRequest, "Invalid avatar url")
		}

		settings["avatar"] = *req.Avatar
	}

	if len(settings) == 0 {
		return &model.UpdateSettingsResponse{}, nil
	}

	if err := d.userRepo.UpdateSettings(ctx, userID, settings); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot update settings: %v", err)
		return nil, errorx.Unknown
	}

	if req.Bio != nil {
		if user, err := d.userRepo.GetByID(ctx, userID); err == nil {
			d.index(ctx, user)
		}
	}

	return &model.UpdateSettingsResponse{}, nil
}

func (d *userDomain) GetPopular(
	ctx context.Context, req *model.GetPopularUsersRequest,
) (*model.GetPopularUsersResponse, error) {
	if err := checkPagination(ctx, 0, &req.Limit); err != nil {
		return nil, err
	}

	users, err := d.userRepo.GetPopular(ctx, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get popular users: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.PopularUser{}
	for i := range users {
		result = append(result, model.PopularUser{
			ShortUser:     model.ConvertShortUser(&users[i].User),
			FollowerCount: users[i].FollowerCount,
		})
	}

	return &model.GetPopularUsersResponse{Users: result}, nil
}

func (d *userDomain) GetUserPosts(
	ctx context.Context, req *model.GetUserPostsRequest,
) (*model.GetUserPostsResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	user, err := d.getByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	ok, err := d.presenter.canView(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check follow: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		return nil, errorx.New(errorx.PermissionDenied, "This account is private")
	}

	posts, err := d.postRepo.GetByAuthorID(ctx, user.ID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user posts: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.presenter.present(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.GetUserPostsResponse{Posts: result}, nil
}

func (d *userDomain) Search(
	ctx context.Context, req *model.SearchUsersRequest,
) (*model.SearchUsersResponse, error) {
	if err := checkPagination(ctx, req.Offset, &req.Limit); err != nil {
		return nil, err
	}

	ids, err := d.searchIndex.SearchUsers(ctx, req.Q, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search users: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.ShortUser{}
	if len(ids) == 0 {
		return &model.SearchUsersResponse{Users: result}, nil
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	byID := map[string]*entity.User{}
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	// Keep the ranking of the index.
	for _, id := range ids {
		if user, ok := byID[id]; ok && !user.IsBanned {
			result = append(result, model.ConvertShortUser(user))
		}
	}

	return &model.SearchUsersResponse{Users: result}, nil
}

func (d *userDomain) getByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := d.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func (d *userDomain) profile(ctx context.Context, user *entity.User) (*model.User, error) {
	result := model.ConvertUser(user, user.ID == xcontext.RequestUserID(ctx))

	var err error
	if result.FollowerCount, err = d.followRepo.CountFollowers(ctx, user.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count followers: %v", err)
		return nil, errorx.Unknown
	}

	if result.FollowingCount, err = d.followRepo.CountFollowing(ctx, user.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count following: %v", err)
		return nil, errorx.Unknown
	}

	if result.PostCount, err = d.postRepo.CountByAuthorID(ctx, user.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count posts: %v", err)
		return nil, errorx.Unknown
	}

	return &result, nil
}

// index logs and drops failures, the reindex command repairs the index.
func (d *userDomain) index(ctx context.Context, user *entity.User) {
	err := d.searchIndex.IndexUser(ctx, user.ID, search.UserData{
		Username: user.Username,
		Bio:      user.Bio,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index user %s: %v", user.ID, err)
	}
}
