package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/platform/metrics"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/session"
)

// PlayerService orchestrates the session lifecycle: it ties authentication,
// the session registry and character selection together and publishes the
// player-scoped events.
type PlayerService struct {
	registry   *session.Registry
	accounts   *AccountService
	characters *CharacterService
	bus        *event.Bus
	logger     *zap.Logger
}

// NewPlayerService creates a PlayerService.
func NewPlayerService(registry *session.Registry, accounts *AccountService, characters *CharacterService, bus *event.Bus, logger *zap.Logger) *PlayerService {
	return &PlayerService{
		registry:   registry,
		accounts:   accounts,
		characters: characters,
		bus:        bus,
		logger:     logger,
	}
}

// Login authenticates the credentials and registers a session for the
// connection. Duplicate connections and already-logged-in usernames surface
// the registry sentinels unchanged.
func (p *PlayerService) Login(ctx context.Context, connectionID uint64, username, password string) (*session.Player, error) {
	account, err := p.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	player, err := p.registry.Register(ctx, connectionID, account)
	if err != nil {
		return nil, err
	}
	p.syncGauges()

	p.bus.Publish(ctx, event.PlayerLoggedIn{
		Base:         event.NewBase(),
		ConnectionID: connectionID,
		AccountID:    account.ID,
		Username:     account.Username,
	})
	return player, nil
}

// Logout ends the session for the connection. Unknown connections return
// ErrSessionNotFound.
func (p *PlayerService) Logout(ctx context.Context, connectionID uint64) error {
	player, ok := p.registry.GetByConnectionID(connectionID)
	if !ok {
		return errs.ErrSessionNotFound
	}
	accountID := player.AccountID()
	username := player.Username()

	p.registry.Unregister(connectionID)
	p.syncGauges()

	p.bus.Publish(ctx, event.PlayerLoggedOut{
		Base:         event.NewBase(),
		ConnectionID: connectionID,
		AccountID:    accountID,
		Username:     username,
	})
	return nil
}

// SelectCharacter binds a character to the session after the registry's
// ownership check passes.
func (p *PlayerService) SelectCharacter(ctx context.Context, connectionID uint64, characterName string) (*session.Player, error) {
	player, ok := p.registry.GetByConnectionID(connectionID)
	if !ok {
		return nil, errs.ErrSessionNotFound
	}

	character, err := p.characters.GetByName(ctx, characterName)
	if err != nil {
		return nil, err
	}
	if err := p.registry.ActivateCharacter(connectionID, character); err != nil {
		return nil, err
	}

	p.bus.Publish(ctx, event.PlayerCharacterSelected{
		Base:          event.NewBase(),
		ConnectionID:  connectionID,
		AccountID:     player.AccountID(),
		CharacterID:   character.ID,
		CharacterName: character.Name,
	})
	return player, nil
}

// DeselectCharacter clears the session's character binding. A session without
// a selected character returns ErrNoCharacter.
func (p *PlayerService) DeselectCharacter(ctx context.Context, connectionID uint64) error {
	player, ok := p.registry.GetByConnectionID(connectionID)
	if !ok {
		return errs.ErrSessionNotFound
	}
	selected := player.SelectedCharacter()
	if selected == nil {
		return errs.ErrNoCharacter
	}

	p.registry.DeactivateCharacter(connectionID)
	p.bus.Publish(ctx, event.PlayerCharacterDeselected{
		Base:         event.NewBase(),
		ConnectionID: connectionID,
		CharacterID:  selected.ID,
	})
	return nil
}

// Session resolves the live session for a connection.
func (p *PlayerService) Session(connectionID uint64) (*session.Player, bool) {
	return p.registry.GetByConnectionID(connectionID)
}

func (p *PlayerService) syncGauges() {
	metrics.ActiveSessions.Set(float64(p.registry.Count()))
	metrics.AuthenticatedSessions.Set(float64(p.registry.AuthenticatedCount()))
}
