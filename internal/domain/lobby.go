package domain

import (
	"context"

	"github.com/questx-lab/classroom/internal/model"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type LobbyDomain interface {
	GetLobbyMessages(context.Context, *model.GetLobbyMessagesRequest) (*model.GetLobbyMessagesResponse, error)
}

type lobbyDomain struct {
	lobbyMessageRepo repository.LobbyMessageRepository
}

func NewLobbyDomain(lobbyMessageRepo repository.LobbyMessageRepository) *lobbyDomain {
	return &lobbyDomain{lobbyMessageRepo: lobbyMessageRepo}
}

// GetLobbyMessages returns the latest messages, newest first.
func (d *lobbyDomain) GetLobbyMessages(
	ctx context.Context, req *model.GetLobbyMessagesRequest,
) (*model.GetLobbyMessagesResponse, error) {
	cfg := xcontext.Configs(ctx).Lobby
	if req.Limit == 0 {
		req.Limit = cfg.DefaultHistory
	}

	if req.Limit < 0 || req.Limit > cfg.MaxHistory {
		return nil, errorx.New(errorx.BadRequest, "Limit must be in range 1-%d", cfg.MaxHistory)
	}

	messages, err := d.lobbyMessageRepo.GetLatest(ctx, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get lobby messages: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetLobbyMessagesResponse{Messages: []model.LobbyMessage{}}
	for i := range messages {
		resp.Messages = append(resp.Messages, model.ConvertLobbyMessage(&messages[i]))
	}

	return resp, nil
}
