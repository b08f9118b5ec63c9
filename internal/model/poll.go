package model

type CreatePollRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options"`
	DurationHours int      `json:"duration_hours"`
}

type CreatePollResponse struct {
	Post Post `json:"post"`
	Poll Poll `json:"poll"`
}

type VotePollRequest struct {
	PollID   string `json:"poll_id" validate:"required"`
	OptionID string `json:"option_id" validate:"required"`
}

type VotePollResponse struct {
	Poll Poll `json:"poll"`
}

type GetPollRequest struct {
	PollID string `json:"poll_id" validate:"required"`
}

type GetPollResponse struct {
	Poll Poll `json:"poll"`
}
