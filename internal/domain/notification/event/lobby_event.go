package event

const ChatMessageOp = "chat_message"

// CHAT MESSAGE EVENT
type ChatMessageEvent struct {
	Message   string `json:"message"`
	Username  string `json:"username"`
	IsTeacher bool   `json:"is_teacher"`
}

func (*ChatMessageEvent) Op() string {
	return ChatMessageOp
}
