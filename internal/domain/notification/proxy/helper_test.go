package proxy

import (
	"github.com/questx-lab/classroom/internal/domain/notification/event"
	"github.com/questx-lab/classroom/internal/domain/notification/group"
	"github.com/questx-lab/classroom/pkg/testutil"
)

func newChatNotification() *event.EventRequest {
	return event.New(
		&event.ChatNotificationEvent{Message: "New message in the public lobby"},
		event.Metadata{To: group.ChatNotifications},
	)
}

func newActivityNotification(toUser string) *event.EventRequest {
	return event.New(
		&event.NewNotificationEvent{Title: "New Activity", Message: "Midterm"},
		event.Metadata{To: group.Activity(testutil.Course1.ID), ToUser: toUser},
	)
}
