package model

type ReportPostRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Reason string `json:"reason"`
}

type ReportPostResponse struct {
	Report Report `json:"report"`
}

type ReportUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Reason string `json:"reason"`
}

type ReportUserResponse struct {
	Report Report `json:"report"`
}

type ResolveReportRequest struct {
	ReportID string `json:"report_id" validate:"required"`
	Decision string `json:"decision" validate:"required"`

	// BanAuthor bans the author of a reported post instead of removing the
	// post. Reports without a post always ban the reported user.
	BanAuthor bool `json:"ban_author"`
}

type ResolveReportResponse struct {
	Report Report `json:"report"`
}

type GetReportsRequest struct {
	Status string `json:"status"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetReportsResponse struct {
	Reports []Report `json:"reports"`
}

type BanUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type BanUserResponse struct{}

type UnbanUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type UnbanUserResponse struct{}
