package model

type CreatePostRequest struct {
	Content       string `json:"content"`
	MediaType     string `json:"media_type"`
	MediaFilename string `json:"media_filename"`
	ReplyToID     string `json:"reply_to_id"`
}

type CreatePostResponse struct {
	Post Post `json:"post"`
}

type EditPostRequest struct {
	PostID  string `json:"post_id" validate:"required"`
	Content string `json:"content"`
}

type EditPostResponse struct {
	Post Post `json:"post"`
}

type GetEditHistoryRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

type GetEditHistoryResponse struct {
	History []EditHistoryEntry `json:"history"`
}

type DeletePostRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

type DeletePostResponse struct{}

type GetPostRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

type GetPostResponse struct {
	Post   Post  `json:"post"`
	Parent *Post `json:"parent,omitempty"`
}

type GetRepliesRequest struct {
	PostID string `json:"post_id" validate:"required"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetRepliesResponse struct {
	Posts []Post `json:"posts"`
}

type GetTimelineRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetTimelineResponse struct {
	Posts []Post `json:"posts"`
}

type GetPostsByHashtagRequest struct {
	Hashtag string `json:"hashtag" validate:"required"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

type GetPostsByHashtagResponse struct {
	Posts []Post `json:"posts"`
}

type GetTrendingHashtagsRequest struct {
	Limit int `json:"limit"`
}

type GetTrendingHashtagsResponse struct {
	Hashtags []Hashtag `json:"hashtags"`
}

type SearchPostsRequest struct {
	Q      string `json:"q" validate:"required"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type SearchPostsResponse struct {
	Posts []Post `json:"posts"`
}
