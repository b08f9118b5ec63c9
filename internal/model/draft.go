package model

type SaveDraftRequest struct {
	Content       string `json:"content"`
	MediaType     string `json:"media_type"`
	MediaFilename string `json:"media_filename"`
}

type SaveDraftResponse struct {
	Draft Draft `json:"draft"`
}

type UpdateDraftRequest struct {
	ID            string `json:"id" validate:"required"`
	Content       string `json:"content"`
	MediaType     string `json:"media_type"`
	MediaFilename string `json:"media_filename"`
}

type UpdateDraftResponse struct {
	Draft Draft `json:"draft"`
}

type GetDraftsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetDraftsResponse struct {
	Drafts []Draft `json:"drafts"`
}

type DeleteDraftRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteDraftResponse struct{}

type PublishDraftRequest struct {
	ID string `json:"id" validate:"required"`
}

type PublishDraftResponse struct {
	Post Post `json:"post"`
}
