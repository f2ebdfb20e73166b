package command

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/platform/metrics"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/service"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/session"
)

// Spawn defaults for newly created characters.
var (
	spawnVital = entity.Vital{Health: 100, MaxHealth: 100, Mana: 50, MaxMana: 50}
	spawnBox   = entity.BoundingBox{X: 0, Y: 0, Width: 1, Height: 1}
)

const spawnFloor = 0

// Handler dispatches client commands to the domain services. A handler method
// never returns an error to the connection layer: every failure becomes a
// CommandFailed event on the bus and the returned envelope carries the
// terminal status.
type Handler struct {
	registry   *session.Registry
	accounts   *service.AccountService
	characters *service.CharacterService
	players    *service.PlayerService
	bus        *event.Bus
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(registry *session.Registry, accounts *service.AccountService, characters *service.CharacterService, players *service.PlayerService, bus *event.Bus, logger *zap.Logger) *Handler {
	return &Handler{
		registry:   registry,
		accounts:   accounts,
		characters: characters,
		players:    players,
		bus:        bus,
		validate:   validator.New(),
		logger:     logger,
	}
}

// CreateAccount registers a new account. Pre-auth: no session required.
func (h *Handler) CreateAccount(ctx context.Context, connectionID uint64, payload CreateAccountPayload) *Command {
	cmd, done := h.begin(TypeCreateAccount, connectionID)
	defer done()

	if err := h.validate.Struct(payload); err != nil {
		return h.fail(ctx, cmd, errs.CodeValidation, validationReason(err))
	}
	if _, err := h.accounts.Register(ctx, payload.Username, payload.Password); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// Login authenticates the connection and registers its session.
func (h *Handler) Login(ctx context.Context, connectionID uint64, payload LoginPayload) *Command {
	cmd, done := h.begin(TypeLogin, connectionID)
	defer done()

	if err := h.validate.Struct(payload); err != nil {
		return h.fail(ctx, cmd, errs.CodeValidation, validationReason(err))
	}
	if _, err := h.players.Login(ctx, connectionID, payload.Username, payload.Password); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// Logout ends the connection's session.
func (h *Handler) Logout(ctx context.Context, connectionID uint64) *Command {
	cmd, done := h.begin(TypeLogout, connectionID)
	defer done()

	if err := h.players.Logout(ctx, connectionID); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// CreateCharacter creates a character for the session's account.
func (h *Handler) CreateCharacter(ctx context.Context, connectionID uint64, payload CreateCharacterPayload) *Command {
	cmd, done := h.begin(TypeCreateCharacter, connectionID)
	defer done()

	if err := h.validate.Struct(payload); err != nil {
		return h.fail(ctx, cmd, errs.CodeValidation, validationReason(err))
	}
	player, ok := h.registry.GetByConnectionID(connectionID)
	if !ok {
		return h.fail(ctx, cmd, errs.CodeMustBeLoggedIn, "log in before creating a character")
	}

	stats := entity.Stats{Strength: payload.Strength, Defense: payload.Defense, Agility: payload.Agility}
	if _, err := h.characters.Create(ctx, player.AccountID(), payload.Name, stats, spawnVital, spawnBox, spawnFloor); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// SelectCharacter binds one of the account's characters to the session.
func (h *Handler) SelectCharacter(ctx context.Context, connectionID uint64, payload SelectCharacterPayload) *Command {
	cmd, done := h.begin(TypeSelectCharacter, connectionID)
	defer done()

	if err := h.validate.Struct(payload); err != nil {
		return h.fail(ctx, cmd, errs.CodeValidation, validationReason(err))
	}
	if _, err := h.players.SelectCharacter(ctx, connectionID, payload.Name); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// DeselectCharacter clears the session's character binding.
func (h *Handler) DeselectCharacter(ctx context.Context, connectionID uint64) *Command {
	cmd, done := h.begin(TypeDeselectCharacter, connectionID)
	defer done()

	if err := h.players.DeselectCharacter(ctx, connectionID); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// Move steps the selected character one unit in the payload direction.
func (h *Handler) Move(ctx context.Context, connectionID uint64, payload MovePayload) *Command {
	cmd, done := h.begin(TypeMove, connectionID)
	defer done()

	if err := h.validate.Struct(payload); err != nil {
		return h.fail(ctx, cmd, errs.CodeValidation, validationReason(err))
	}
	selected, err := h.selectedCharacter(connectionID)
	if err != nil {
		return h.failErr(ctx, cmd, err)
	}
	dir, ok := parseDirection(payload.Direction)
	if !ok {
		return h.fail(ctx, cmd, errs.CodeValidation, "unknown direction")
	}
	if err := h.characters.Move(ctx, selected.ID, dir); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// Attack makes the selected character attack the named target.
func (h *Handler) Attack(ctx context.Context, connectionID uint64, payload AttackPayload) *Command {
	cmd, done := h.begin(TypeAttack, connectionID)
	defer done()

	if err := h.validate.Struct(payload); err != nil {
		return h.fail(ctx, cmd, errs.CodeValidation, validationReason(err))
	}
	selected, err := h.selectedCharacter(connectionID)
	if err != nil {
		return h.failErr(ctx, cmd, err)
	}
	target, err := h.characters.GetByName(ctx, payload.TargetName)
	if err != nil {
		return h.failErr(ctx, cmd, err)
	}
	if err := h.characters.Attack(ctx, selected.ID, target.ID, nil); err != nil {
		return h.failErr(ctx, cmd, err)
	}
	return h.succeed(cmd)
}

// selectedCharacter resolves the session and its selected character.
func (h *Handler) selectedCharacter(connectionID uint64) (*entity.Character, error) {
	player, ok := h.registry.GetByConnectionID(connectionID)
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	selected := player.SelectedCharacter()
	if selected == nil {
		return nil, errs.ErrNoCharacter
	}
	player.Touch()
	return selected, nil
}

func (h *Handler) begin(t Type, connectionID uint64) (*Command, func()) {
	cmd := New(t, connectionID)
	cmd.Status = StatusDispatched
	start := time.Now()
	return cmd, func() {
		metrics.CommandDuration.WithLabelValues(string(t)).Observe(time.Since(start).Seconds())
	}
}

func (h *Handler) succeed(cmd *Command) *Command {
	cmd.Status = StatusSucceeded
	metrics.CommandsTotal.WithLabelValues(string(cmd.Type), "succeeded").Inc()
	return cmd
}

// failErr maps a service error to its machine code. A missing session always
// surfaces as MUST_BE_LOGGED_IN, not as a generic not-found.
func (h *Handler) failErr(ctx context.Context, cmd *Command, err error) *Command {
	code := errs.CodeOf(err)
	if errors.Is(err, errs.ErrSessionNotFound) {
		code = errs.CodeMustBeLoggedIn
	}
	return h.fail(ctx, cmd, code, err.Error())
}

// fail publishes the CommandFailed event and finalizes the envelope. The
// username is resolved from the live session; when the session is unknown the
// field stays empty rather than guessing.
func (h *Handler) fail(ctx context.Context, cmd *Command, code, reason string) *Command {
	cmd.Status = StatusFailed
	metrics.CommandsTotal.WithLabelValues(string(cmd.Type), "failed").Inc()

	username := ""
	if player, ok := h.registry.GetByConnectionID(cmd.ConnectionID); ok {
		username = player.Username()
	}

	h.logger.Info("command failed",
		zap.String("command", string(cmd.Type)),
		zap.Uint64("connection_id", cmd.ConnectionID),
		zap.String("code", code),
		zap.String("reason", reason),
	)
	h.bus.Publish(ctx, event.CommandFailed{
		Base:         event.NewBase(),
		ConnectionID: cmd.ConnectionID,
		Username:     username,
		Command:      string(cmd.Type),
		Code:         code,
		Reason:       reason,
	})
	return cmd
}

// validationReason flattens validator field errors into one readable line.
func validationReason(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return "invalid field " + fe.Field() + ": failed " + fe.Tag()
	}
	return err.Error()
}
