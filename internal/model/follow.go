package model

type FollowRequest struct {
	Username string `json:"username" validate:"required"`
}

type FollowResponse struct{}

type UnfollowRequest struct {
	Username string `json:"username" validate:"required"`
}

type UnfollowResponse struct{}

type IsFollowingRequest struct {
	Username string `json:"username" validate:"required"`
}

type IsFollowingResponse struct {
	Following bool `json:"following"`
}

type GetFollowersRequest struct {
	Username string `json:"username" validate:"required"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type GetFollowersResponse struct {
	Users []ShortUser `json:"users"`
}

type GetFollowingRequest struct {
	Username string `json:"username" validate:"required"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type GetFollowingResponse struct {
	Users []ShortUser `json:"users"`
}
