package model

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`

	// OTP is a TOTP code or an unused backup code, required when two factor
	// authentication is enabled.
	OTP string `json:"otp"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type GetMeRequest struct{}

type GetMeResponse User

type GetUserRequest struct {
	Username string `json:"username" validate:"required"`
}

type GetUserResponse User

type UpdateSettingsRequest struct {
	CanReceiveMessages *bool   `json:"can_receive_messages"`
	IsPrivate          *bool   `json:"is_private"`
	Bio                *string `json:"bio"`
	Avatar             *string `json:"avatar"`
}

type UpdateSettingsResponse struct{}

type GetPopularUsersRequest struct {
	Limit int `json:"limit"`
}

type GetPopularUsersResponse struct {
	Users []PopularUser `json:"users"`
}

type GetUserPostsRequest struct {
	Username string `json:"username" validate:"required"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type GetUserPostsResponse struct {
	Posts []Post `json:"posts"`
}

type SearchUsersRequest struct {
	Q      string `json:"q" validate:"required"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type SearchUsersResponse struct {
	Users []ShortUser `json:"users"`
}
