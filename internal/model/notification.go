package model

type GetNotificationsRequest struct {
	UnreadOnly bool `json:"unread_only"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type MarkNotificationReadRequest struct {
	ID string `json:"id" validate:"required"`
}

type MarkNotificationReadResponse struct{}

type MarkAllNotificationsReadRequest struct{}

type MarkAllNotificationsReadResponse struct {
	Count int64 `json:"count"`
}

type CountUnreadNotificationsRequest struct{}

type CountUnreadNotificationsResponse struct {
	Count int64 `json:"count"`
}
