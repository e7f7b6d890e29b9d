package model

import (
	"strconv"
	"time"

	"github.com/questx-lab/classroom/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertNotification(n *entity.Notification) Notification {
	if n == nil {
		return Notification{}
	}

	return Notification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(DefaultTimeLayout),
	}
}

// ConvertLobbyMessage needs the author to be preloaded.
func ConvertLobbyMessage(m *entity.LobbyMessage) LobbyMessage {
	if m == nil {
		return LobbyMessage{}
	}

	return LobbyMessage{
		ID:        strconv.FormatInt(m.ID, 10),
		Message:   m.Text,
		Username:  m.Author.Username,
		IsTeacher: m.Author.IsTeacher,
		CreatedAt: m.CreatedAt.Format(DefaultTimeLayout),
	}
}
