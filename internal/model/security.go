package model

type Enable2FARequest struct{}

type Enable2FAResponse struct {
	Secret      string   `json:"secret"`
	URL         string   `json:"url"`
	BackupCodes []string `json:"backup_codes"`
}

type Disable2FARequest struct {
	Code string `json:"code" validate:"required"`
}

type Disable2FAResponse struct{}

type GetLoginHistoryRequest struct{}

type LoginRecord struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	LoggedAt  string `json:"logged_at"`
}

type GetLoginHistoryResponse struct {
	TwoFactorEnabled bool          `json:"two_factor_enabled"`
	History          []LoginRecord `json:"history"`
}
