package entity

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
)

// CharacterState is the behavior state of a character. Unlike the account
// lifecycle there is no transition table: transitions are driven by gameplay
// causality and each behavior method enforces its own precondition.
type CharacterState int

const (
	// CharacterIdle means the character is standing still.
	CharacterIdle CharacterState = iota
	// CharacterWalking means the character is moving.
	CharacterWalking
	// CharacterAttacking means the character is mid-attack.
	CharacterAttacking
	// CharacterDead means the character cannot act until revived.
	CharacterDead
)

var characterStateNames = map[CharacterState]string{
	CharacterIdle:      "Idle",
	CharacterWalking:   "Walking",
	CharacterAttacking: "Attacking",
	CharacterDead:      "Dead",
}

func (s CharacterState) String() string {
	if name, ok := characterStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Direction is one of the eight movement directions.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionVectors = map[Direction][2]int{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

var directionNames = map[Direction]string{
	North:     "North",
	NorthEast: "NorthEast",
	East:      "East",
	SouthEast: "SouthEast",
	South:     "South",
	SouthWest: "SouthWest",
	West:      "West",
	NorthWest: "NorthWest",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "Unknown"
}

// Vector returns the unit step of the direction.
func (d Direction) Vector() (dx, dy int) {
	v := directionVectors[d]
	return v[0], v[1]
}

// Stats are the combat attributes of a character, each non-negative.
type Stats struct {
	Strength int
	Defense  int
	Agility  int
}

// Vital tracks health and mana, always clamped to [0, max].
type Vital struct {
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
}

// BoundingBox is the character's position box in floor coordinates.
type BoundingBox struct {
	X      int
	Y      int
	Width  int
	Height int
}

const (
	// walkSpeed is the nominal movement speed reported in walk events.
	walkSpeed = 1.0
	// attackRange is the radius within which an attack can land.
	attackRange = 2.0
	// defaultReviveHealth is the health fraction restored by a plain revive.
	defaultReviveHealth = 0.1
)

// Character is an independent aggregate: it is owned by an account through
// the account's association list, but lives and persists on its own.
type Character struct {
	Entity

	Name      string
	AccountID uuid.UUID
	Stats     Stats
	Vital     Vital
	Box       BoundingBox
	Facing    Direction
	State     CharacterState
	Floor     int

	lastAttackerID uuid.UUID
}

// NewCharacter builds an idle character at the given spawn box and records
// the creation event.
func NewCharacter(accountID uuid.UUID, name string, stats Stats, vital Vital, box BoundingBox, floor int) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValidation("character name is required")
	}
	if stats.Strength < 0 || stats.Defense < 0 || stats.Agility < 0 {
		return nil, errs.NewValidation("stats must be non-negative")
	}
	if vital.MaxHealth <= 0 || vital.MaxMana < 0 {
		return nil, errs.NewValidation("max health must be positive and max mana non-negative")
	}
	if floor < 0 {
		return nil, errs.NewValidation("floor must be non-negative")
	}
	vital.Health = clamp(vital.Health, 0, vital.MaxHealth)
	vital.Mana = clamp(vital.Mana, 0, vital.MaxMana)

	c := &Character{
		Name:      name,
		AccountID: accountID,
		Stats:     stats,
		Vital:     vital,
		Box:       box,
		Facing:    South,
		State:     CharacterIdle,
		Floor:     floor,
	}
	c.ID = uuid.New()
	c.Record(event.CharacterCreated{
		Base:        event.NewBase(),
		CharacterID: c.ID,
		AccountID:   accountID,
		Name:        name,
	})
	return c, nil
}

// Move steps the bounding-box origin one unit in dir and enters the walking
// state. Dead characters do not move. The walk event fires only on the
// transition into Walking, not on every step.
func (c *Character) Move(dir Direction) {
	if c.State == CharacterDead {
		return
	}
	previous := c.State
	fromX, fromY := c.Box.X, c.Box.Y

	dx, dy := dir.Vector()
	c.Box.X += dx
	c.Box.Y += dy
	c.Facing = dir
	c.State = CharacterWalking

	if previous != CharacterWalking {
		c.Record(event.CharacterWalked{
			Base:        event.NewBase(),
			CharacterID: c.ID,
			Previous:    previous.String(),
			Direction:   dir.String(),
			FromX:       fromX,
			FromY:       fromY,
			Speed:       walkSpeed,
		})
	}
}

// StopMoving transitions Walking to Idle. Any other current state is a no-op.
func (c *Character) StopMoving() {
	if c.State != CharacterWalking {
		return
	}
	c.State = CharacterIdle
	c.Record(event.CharacterStateChanged{
		Base:        event.NewBase(),
		CharacterID: c.ID,
		Previous:    CharacterWalking.String(),
		Next:        CharacterIdle.String(),
	})
}

// Attack strikes target if it is within range on the same floor. Damage is
// max(1, 2*strength - target defense) scaled by a ±20% factor drawn from
// roll (rand.Float64 when nil) and rounded. The damage is applied to the
// target after the attack event is recorded. Dead attackers do nothing.
func (c *Character) Attack(target *Character, roll func() float64) {
	if c.State == CharacterDead || target == nil {
		return
	}
	if target.Floor != c.Floor || !c.inRange(target) {
		return
	}
	if roll == nil {
		roll = rand.Float64
	}

	previous := c.State
	c.State = CharacterAttacking

	base := 2*c.Stats.Strength - target.Stats.Defense
	if base < 1 {
		base = 1
	}
	factor := 0.8 + 0.4*roll()
	damage := int(math.Round(float64(base) * factor))
	if damage < 1 {
		damage = 1
	}

	c.Record(event.CharacterAttacked{
		Base:        event.NewBase(),
		CharacterID: c.ID,
		TargetID:    target.ID,
		Previous:    previous.String(),
		Damage:      damage,
		X:           c.Box.X,
		Y:           c.Box.Y,
	})

	target.lastAttackerID = c.ID
	target.TakeDamage(damage)
}

func (c *Character) inRange(target *Character) bool {
	dx := float64(target.Box.X - c.Box.X)
	dy := float64(target.Box.Y - c.Box.Y)
	return math.Hypot(dx, dy) <= attackRange
}

// TakeDamage reduces health, flooring at zero. Negative input counts as zero.
// Dead characters take no further damage. Reaching zero health kills the
// character.
func (c *Character) TakeDamage(amount int) {
	if c.State == CharacterDead {
		return
	}
	if amount < 0 {
		amount = 0
	}
	c.Vital.Health -= amount
	if c.Vital.Health <= 0 {
		c.Vital.Health = 0
		c.Die()
	}
}

// Heal restores health up to the maximum. Dead characters cannot be healed;
// negative input counts as zero.
func (c *Character) Heal(amount int) {
	if c.State == CharacterDead {
		return
	}
	if amount < 0 {
		amount = 0
	}
	c.Vital.Health = clamp(c.Vital.Health+amount, 0, c.Vital.MaxHealth)
}

// UseMana spends mana and reports whether enough was available. Dead
// characters cannot spend mana; negative input counts as zero.
func (c *Character) UseMana(amount int) bool {
	if c.State == CharacterDead {
		return false
	}
	if amount < 0 {
		amount = 0
	}
	if c.Vital.Mana < amount {
		return false
	}
	c.Vital.Mana -= amount
	return true
}

// RestoreMana refills mana up to the maximum. Dead characters are not
// affected; negative input counts as zero.
func (c *Character) RestoreMana(amount int) {
	if c.State == CharacterDead {
		return
	}
	if amount < 0 {
		amount = 0
	}
	c.Vital.Mana = clamp(c.Vital.Mana+amount, 0, c.Vital.MaxMana)
}

// Die zeroes health and enters the Dead state. It fires exactly once per
// death; calling it on an already dead character does nothing.
func (c *Character) Die() {
	if c.State == CharacterDead {
		return
	}
	previous := c.State
	c.Vital.Health = 0
	c.State = CharacterDead

	cause := "health depleted"
	if c.lastAttackerID != uuid.Nil {
		cause = "slain"
	}
	c.Record(event.CharacterDied{
		Base:        event.NewBase(),
		CharacterID: c.ID,
		Name:        c.Name,
		Previous:    previous.String(),
		Cause:       cause,
		KillerID:    c.lastAttackerID,
		Location:    fmt.Sprintf("floor %d (%d,%d)", c.Floor, c.Box.X, c.Box.Y),
	})
}

// Revive brings a dead character back at healthPct of max health (0.1 when
// zero or negative, clamped to [0.01, 1.0]) and returns true. Characters that
// are not dead cannot be revived.
func (c *Character) Revive(healthPct float64) bool {
	if c.State != CharacterDead {
		return false
	}
	if healthPct <= 0 {
		healthPct = defaultReviveHealth
	}
	healthPct = math.Min(math.Max(healthPct, 0.01), 1.0)

	c.Vital.Health = clamp(int(math.Round(float64(c.Vital.MaxHealth)*healthPct)), 1, c.Vital.MaxHealth)
	c.State = CharacterIdle
	c.lastAttackerID = uuid.Nil
	c.Record(event.CharacterStateChanged{
		Base:        event.NewBase(),
		CharacterID: c.ID,
		Previous:    CharacterDead.String(),
		Next:        CharacterIdle.String(),
	})
	return true
}

// IncreaseStats adds delta to the character's stats, flooring each attribute
// at zero. Pure progression: no event is recorded.
func (c *Character) IncreaseStats(delta Stats) {
	c.Stats.Strength = maxInt(c.Stats.Strength+delta.Strength, 0)
	c.Stats.Defense = maxInt(c.Stats.Defense+delta.Defense, 0)
	c.Stats.Agility = maxInt(c.Stats.Agility+delta.Agility, 0)
}

// IsAlive reports whether the character can act.
func (c *Character) IsAlive() bool {
	return c.State != CharacterDead
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
