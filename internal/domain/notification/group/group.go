// Package group names the groups of the notification service.
package group

import "strings"

const (
	ChatNotifications = "chat_notifications"
	PublicLobby       = "public_lobby"
)

func User(userID string) string {
	return "user:" + userID
}

func EnrollmentTeacher(teacherID string) string {
	return "enrollment_teacher:" + teacherID
}

func Material(courseID string) string {
	return "material:" + courseID
}

func Activity(courseID string) string {
	return "activity:" + courseID
}

// Valid reports whether name is one of the known group kinds.
func Valid(name string) bool {
	switch name {
	case ChatNotifications, PublicLobby:
		return true
	}

	for _, prefix := range []string{"user:", "enrollment_teacher:", "material:", "activity:"} {
		if id, ok := strings.CutPrefix(name, prefix); ok {
			return id != ""
		}
	}

	return false
}
