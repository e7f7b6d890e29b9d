package event

const (
	NewNotificationOp     = "new_notification"
	DynamicSubscriptionOp = "dynamic_subscription"
	ChatNotificationOp    = "chat_notification"
)

// NEW NOTIFICATION EVENT
type NewNotificationEvent struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

func (*NewNotificationEvent) Op() string {
	return NewNotificationOp
}

// DYNAMIC SUBSCRIPTION EVENT
type DynamicSubscriptionEvent struct {
	MaterialGroup string `json:"material_group"`
	ActivityGroup string `json:"activity_group"`
}

func (*DynamicSubscriptionEvent) Op() string {
	return DynamicSubscriptionOp
}

// CHAT NOTIFICATION EVENT
type ChatNotificationEvent struct {
	Message string `json:"message"`
}

func (*ChatNotificationEvent) Op() string {
	return ChatNotificationOp
}
