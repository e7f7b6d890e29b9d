package directive

type Command string

const (
	LeaveChatNotificationsCommand Command = "leave_chat_notifications"
	JoinChatNotificationsCommand  Command = "join_chat_notifications"
)

// NotificationDirective is sent by clients of the notification endpoint.
type NotificationDirective struct {
	Command Command `json:"command"`
}

// LobbyDirective is sent by clients of the lobby endpoint.
type LobbyDirective struct {
	Message string `json:"message"`
}
