package model

type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

type ServeNotificationRequest struct{}

type GetNotificationsRequest struct {
	UnreadOnly bool `json:"unread_only"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type ToggleNotificationReadRequest struct {
	ID string `json:"id"`
}

type ToggleNotificationReadResponse struct {
	Notification Notification `json:"notification"`
}
