package model

type SendMessageRequest struct {
	Username string `json:"username" validate:"required"`
	Body     string `json:"body"`
}

type SendMessageResponse struct {
	Message Message `json:"message"`
}

type GetConversationRequest struct {
	Username string `json:"username" validate:"required"`

	// BeforeID is the id of the oldest message already loaded, empty to start
	// from the newest message.
	BeforeID string `json:"before_id"`
	Limit    int    `json:"limit"`
}

type GetConversationResponse struct {
	Messages []Message `json:"messages"`
	NextID   string    `json:"next_id"`
}

type GetDialogsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetDialogsResponse struct {
	Dialogs []Dialog `json:"dialogs"`
}
