package model

type ToggleLikeRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

type ToggleLikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type ToggleReactionRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Type   string `json:"type" validate:"required"`
}

type ToggleReactionResponse struct {
	Added bool  `json:"added"`
	Count int64 `json:"count"`
}

type RetweetRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

type RetweetResponse struct {
	RetweetCount int `json:"retweet_count"`
}

type GetReactionsRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

type GetReactionsResponse struct {
	Reactions []Reaction `json:"reactions"`

	// Mine lists the reaction types of the request user, empty for anonymous
	// viewers.
	Mine []string `json:"mine"`
}
