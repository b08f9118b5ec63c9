package model

type StartStreamRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type StartStreamResponse struct {
	Stream LiveStream `json:"stream"`
}

type EndStreamRequest struct {
	StreamID string `json:"stream_id" validate:"required"`
}

type EndStreamResponse struct {
	Stream LiveStream `json:"stream"`
}

type GetLiveStreamsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetLiveStreamsResponse struct {
	Streams []LiveStream `json:"streams"`
}

type JoinStreamRequest struct {
	StreamID string `json:"stream_id" validate:"required"`
}

type JoinStreamResponse struct {
	Stream LiveStream `json:"stream"`
}
