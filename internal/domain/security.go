package domain

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/ywitter/backend/internal/entity"
	"github.com/ywitter/backend/internal/model"
	"github.com/ywitter/backend/internal/repository"
	"github.com/ywitter/backend/pkg/crypto"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	backupCodeLength = 10
	maxLoginHistory  = 20
)

type SecurityDomain interface {
	Enable2FA(context.Context, *model.Enable2FARequest) (*model.Enable2FAResponse, error)
	Disable2FA(context.Context, *model.Disable2FARequest) (*model.Disable2FAResponse, error)
	GetLoginHistory(context.Context, *model.GetLoginHistoryRequest) (*model.GetLoginHistoryResponse, error)
}

type securityDomain struct {
	userRepo     repository.UserRepository
	securityRepo repository.UserSecurityRepository
}

func NewSecurityDomain(
	userRepo repository.UserRepository,
	securityRepo repository.UserSecurityRepository,
) *securityDomain {
	return &securityDomain{userRepo: userRepo, securityRepo: securityRepo}
}

func (d *securityDomain) Enable2FA(
	ctx context.Context, req *model.Enable2FARequest,
) (*model.Enable2FAResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	security, err := getSecurityForUpdate(ctx, d.securityRepo, userID)
	if err != nil {
		return nil, err
	}

	if security.TwoFactorEnabled {
		return nil, errorx.New(errorx.AlreadyExists, "Two factor authentication is already enabled")
	}

	cfg := xcontext.Configs(ctx).Security
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      cfg.TOTPIssuer,
		AccountName: user.Username,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate totp key: %v", err)
		return nil, errorx.Unknown
	}

	codes := make([]string, 0, cfg.BackupCodeCount)
	hashes := make(entity.Array[string], 0, cfg.BackupCodeCount)
	for i := 0; i < cfg.BackupCodeCount; i++ {
		code := crypto.RandomCode(backupCodeLength)
		hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot hash backup code: %v", err)
			return nil, errorx.Unknown
		}

		codes = append(codes, code)
		hashes = append(hashes, string(hashed))
	}

	security.TwoFactorEnabled = true
	security.TwoFactorSecret = key.Secret()
	security.BackupCodes = hashes
	if err := d.securityRepo.Upsert(ctx, security); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save user security: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit enabling 2fa: %v", err)
		return nil, errorx.Unknown
	}

	return &model.Enable2FAResponse{
		Secret:      key.Secret(),
		URL:         key.URL(),
		BackupCodes: codes,
	}, nil
}

func (d *securityDomain) Disable2FA(
	ctx context.Context, req *model.Disable2FARequest,
) (*model.Disable2FAResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	security, err := getSecurityForUpdate(ctx, d.securityRepo, userID)
	if err != nil {
		return nil, err
	}

	if !security.TwoFactorEnabled {
		return nil, errorx.New(errorx.InvalidState, "Two factor authentication is not enabled")
	}

	if !consumeSecondFactor(security, req.Code, time.Now()) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid two factor code")
	}

	security.TwoFactorEnabled = false
	security.TwoFactorSecret = ""
	security.BackupCodes = entity.Array[string]{}
	if err := d.securityRepo.Upsert(ctx, security); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save user security: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit disabling 2fa: %v", err)
		return nil, errorx.Unknown
	}

	return &model.Disable2FAResponse{}, nil
}

func (d *securityDomain) GetLoginHistory(
	ctx context.Context, req *model.GetLoginHistoryRequest,
) (*model.GetLoginHistoryResponse, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	security, err := d.securityRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetLoginHistoryResponse{History: []model.LoginRecord{}}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user security: %v", err)
		return nil, errorx.Unknown
	}

	history := []model.LoginRecord{}
	for i := len(security.LoginHistory) - 1; i >= 0; i-- {
		record := security.LoginHistory[i]
		history = append(history, model.LoginRecord{
			IP:        record.IP,
			UserAgent: record.UserAgent,
			LoggedAt:  record.LoggedAt.Format(model.DefaultTimeLayout),
		})
	}

	return &model.GetLoginHistoryResponse{
		TwoFactorEnabled: security.TwoFactorEnabled,
		History:          history,
	}, nil
}

// getSecurityForUpdate locks the security row of the user, or returns a new
// one when the user has none yet.
func getSecurityForUpdate(
	ctx context.Context, securityRepo repository.UserSecurityRepository, userID string,
) (*entity.UserSecurity, error) {
	security, err := securityRepo.GetForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.UserSecurity{UserID: userID}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user security: %v", err)
		return nil, errorx.Unknown
	}

	return security, nil
}

// consumeSecondFactor accepts a current TOTP code or an unused backup code.
// A matched backup code is removed from security.
func consumeSecondFactor(security *entity.UserSecurity, code string, now time.Time) bool {
	if code == "" {
		return false
	}

	if ok, _ := totp.ValidateCustom(code, security.TwoFactorSecret, now, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}); ok {
		return true
	}

	for i, hashed := range security.BackupCodes {
		if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(code)) == nil {
			security.BackupCodes = append(security.BackupCodes[:i:i], security.BackupCodes[i+1:]...)
			return true
		}
	}

	return false
}

// appendLoginRecord keeps the latest maxLoginHistory logins.
func appendLoginRecord(ctx context.Context, security *entity.UserSecurity, now time.Time) {
	record := entity.LoginRecord{LoggedAt: now}
	if req := xcontext.HTTPRequest(ctx); req != nil {
		record.UserAgent = req.UserAgent()
		record.IP = req.RemoteAddr
		if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
			record.IP = host
		}
	}

	security.LoginHistory = append(security.LoginHistory, record)
	if n := len(security.LoginHistory); n > maxLoginHistory {
		security.LoginHistory = security.LoginHistory[n-maxLoginHistory:]
	}
}
