package repository

import (
	"context"

	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type LobbyMessageRepository interface {
	Create(ctx context.Context, data *entity.LobbyMessage) error
	GetByID(ctx context.Context, id int64) (*entity.LobbyMessage, error)

	// GetLatest returns at most limit messages, newest first, with their
	// authors preloaded.
	GetLatest(ctx context.Context, limit int) ([]entity.LobbyMessage, error)
}

type lobbyMessageRepository struct{}

func NewLobbyMessageRepository() *lobbyMessageRepository {
	return &lobbyMessageRepository{}
}

func (r *lobbyMessageRepository) Create(ctx context.Context, data *entity.LobbyMessage) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *lobbyMessageRepository) GetByID(ctx context.Context, id int64) (*entity.LobbyMessage, error) {
	var result entity.LobbyMessage
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lobbyMessageRepository) GetLatest(ctx context.Context, limit int) ([]entity.LobbyMessage, error) {
	var result []entity.LobbyMessage
	err := xcontext.DB(ctx).
		Preload("Author").
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
