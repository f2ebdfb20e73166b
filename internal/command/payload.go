package command

import (
	"strings"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
)

// CreateAccountPayload registers a new account. Pre-auth: no session needed.
type CreateAccountPayload struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginPayload authenticates the connection. Pre-auth.
type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateCharacterPayload creates a character for the session's account.
type CreateCharacterPayload struct {
	Name     string `json:"name" validate:"required,min=2,max=24"`
	Strength int    `json:"strength" validate:"gte=0,lte=100"`
	Defense  int    `json:"defense" validate:"gte=0,lte=100"`
	Agility  int    `json:"agility" validate:"gte=0,lte=100"`
}

// SelectCharacterPayload binds one of the account's characters to the session.
type SelectCharacterPayload struct {
	Name string `json:"name" validate:"required"`
}

// MovePayload steps the selected character one unit.
type MovePayload struct {
	Direction string `json:"direction" validate:"required,oneof=north northeast east southeast south southwest west northwest"`
}

// AttackPayload makes the selected character attack a target by name.
type AttackPayload struct {
	TargetName string `json:"target_name" validate:"required"`
}

var directionsByName = map[string]entity.Direction{
	"north":     entity.North,
	"northeast": entity.NorthEast,
	"east":      entity.East,
	"southeast": entity.SouthEast,
	"south":     entity.South,
	"southwest": entity.SouthWest,
	"west":      entity.West,
	"northwest": entity.NorthWest,
}

func parseDirection(name string) (entity.Direction, bool) {
	d, ok := directionsByName[strings.ToLower(name)]
	return d, ok
}
