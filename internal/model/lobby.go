package model

type LobbyMessage struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Username  string `json:"username"`
	IsTeacher bool   `json:"is_teacher"`
	CreatedAt string `json:"created_at"`
}

type ServeLobbyRequest struct{}

type GetLobbyMessagesRequest struct {
	Limit int `json:"limit"`
}

type GetLobbyMessagesResponse struct {
	Messages []LobbyMessage `json:"messages"`
}
