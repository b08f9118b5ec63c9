package model

type CreateAdRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImageURL  string  `json:"image_url"`
	TargetURL string  `json:"target_url"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Budget    float64 `json:"budget"`
}

type CreateAdResponse struct {
	Ad Advertisement `json:"ad"`
}

type ApproveAdRequest struct {
	ID string `json:"id" validate:"required"`
}

type ApproveAdResponse struct{}

type RejectAdRequest struct {
	ID string `json:"id" validate:"required"`
}

type RejectAdResponse struct{}

type GetAdsRequest struct {
	Status string `json:"status"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetAdsResponse struct {
	Ads []Advertisement `json:"ads"`
}

type GetActiveAdsRequest struct {
	Limit int `json:"limit"`
}

type GetActiveAdsResponse struct {
	Ads []Advertisement `json:"ads"`
}

type RecordAdImpressionRequest struct {
	ID string `json:"id" validate:"required"`
}

type RecordAdImpressionResponse struct{}

type RecordAdClickRequest struct {
	ID string `json:"id" validate:"required"`
}

type RecordAdClickResponse struct {
	TargetURL string `json:"target_url"`
}
