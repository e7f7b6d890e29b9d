package proxy

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/questx-lab/classroom/internal/domain/notification/directive"
	"github.com/questx-lab/classroom/internal/domain/notification/event"
	"github.com/questx-lab/classroom/internal/domain/notification/group"
	"github.com/questx-lab/classroom/internal/domain/notification/registry"
	"github.com/questx-lab/classroom/internal/domain/notification/task"
	"github.com/questx-lab/classroom/internal/entity"
	"github.com/questx-lab/classroom/internal/model"
	"github.com/questx-lab/classroom/internal/repository"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/ws"
	"github.com/questx-lab/classroom/pkg/xcontext"
	"github.com/questx-lab/classroom/pkg/xvalidator"
)

type LobbyProxy struct {
	registry         registry.Registry
	userRepo         repository.UserRepository
	lobbyMessageRepo repository.LobbyMessageRepository
	queue            task.Queue
}

func NewLobbyProxy(
	registry registry.Registry,
	userRepo repository.UserRepository,
	lobbyMessageRepo repository.LobbyMessageRepository,
	queue task.Queue,
) *LobbyProxy {
	return &LobbyProxy{
		registry:         registry,
		userRepo:         userRepo,
		lobbyMessageRepo: lobbyMessageRepo,
		queue:            queue,
	}
}

func (p *LobbyProxy) ServeLobby(ctx context.Context, _ *model.ServeLobbyRequest) error {
	user, err := requestUser(ctx, p.userRepo)
	if err != nil {
		return err
	}

	session := NewSession(ctx, user.ID, p.registry)
	defer session.LeaveAll(ctx)

	if err := session.Join(ctx, group.PublicLobby); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot join public lobby: %v", err)
		return errorx.Unknown
	}
	session.setState(Joined)

	wsClient := xcontext.WSClient(ctx)
	for {
		select {
		case ev := <-session.C:
			if err := p.handleEvent(ctx, wsClient, ev); err != nil {
				return err
			}

		case msg, ok := <-wsClient.R:
			if !ok {
				return nil
			}

			p.handleDirective(ctx, user, msg)

		case <-ctx.Done():
			return nil
		}
	}
}

func (p *LobbyProxy) handleEvent(ctx context.Context, wsClient *ws.Client, ev *event.EventRequest) error {
	switch ev.Data.(type) {
	case *event.ChatMessageEvent:
		return writeEvent(ctx, wsClient, ev)

	default:
		xcontext.Logger(ctx).Warnf("Lobby session does not support event %s", ev.Op)
		return nil
	}
}

func (p *LobbyProxy) handleDirective(ctx context.Context, user *entity.User, msg []byte) {
	var d directive.LobbyDirective
	if err := json.Unmarshal(msg, &d); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot unmarshal directive: %v", err)
		return
	}

	if strings.TrimSpace(d.Message) == "" {
		return
	}

	if utf8.RuneCountInString(d.Message) > xcontext.Configs(ctx).Lobby.MaxMessageLength {
		xcontext.Logger(ctx).Debugf("Lobby message of user %s is too long", user.ID)
		return
	}

	if err := p.PostMessage(ctx, user, d.Message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot post lobby message: %v", err)
	}
}

// PostMessage persists the message, broadcasts it to the lobby and schedules
// the unread signal for chat notification subscribers.
func (p *LobbyProxy) PostMessage(ctx context.Context, author *entity.User, text string) error {
	message := &entity.LobbyMessage{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		AuthorID:      author.ID,
		Text:          text,
	}

	if err := xvalidator.Struct(message); err != nil {
		return err
	}

	if err := p.lobbyMessageRepo.Create(ctx, message); err != nil {
		return err
	}

	err := p.registry.Send(ctx, group.PublicLobby, event.New(
		&event.ChatMessageEvent{
			Message:   message.Text,
			Username:  author.Username,
			IsTeacher: author.IsTeacher,
		},
		event.Metadata{To: group.PublicLobby},
	))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot broadcast lobby message %d: %v", message.ID, err)
	}

	return p.queue.Enqueue(ctx, task.LobbyMessageCreated, task.LobbyMessageCreatedArgs{MessageID: message.ID})
}
