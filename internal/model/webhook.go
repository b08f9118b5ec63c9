package model

type CreateWebhookRequest struct {
	URL    string   `json:"url" validate:"required"`
	Events []string `json:"events"`
}

type CreateWebhookResponse struct {
	Webhook Webhook `json:"webhook"`
}

type GetWebhooksRequest struct{}

type GetWebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

type DeleteWebhookRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteWebhookResponse struct{}
