package state

import (
	"encoding/json"
	"fmt"
)

// The decoders below enforce the runner's wire schema. Each type decodes
// through a shadow struct with pointer fields so that absent required fields
// are detected instead of silently defaulting to zero. Optional fields are
// captured as json.RawMessage and only decoded when a value is present.

// errMissing reports a schema violation for an absent required field.
func errMissing(field string) error {
	return fmt.Errorf("missing required field %q", field)
}

// valuePresent reports whether an optional field carries a value. A JSON
// null counts as absent, matching how the runner omits empty optionals.
func valuePresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// UnmarshalJSON rejects terrain tokens outside the known set.
func (t *CellType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch CellType(s) {
	case Air, Dirt, DeepSpace:
		*t = CellType(s)
		return nil
	}
	return fmt.Errorf("unknown cell type %q", s)
}

// UnmarshalJSON rejects powerup tokens outside the known set.
func (t *PowerupType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch PowerupType(s) {
	case HealthPack:
		*t = PowerupType(s)
		return nil
	}
	return fmt.Errorf("unknown powerup type %q", s)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var raw struct {
		X *uint `json:"x"`
		Y *uint `json:"y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.X == nil {
		return errMissing("x")
	}
	if raw.Y == nil {
		return errMissing("y")
	}
	p.X = *raw.X
	p.Y = *raw.Y
	return nil
}

func (w *Weapon) UnmarshalJSON(data []byte) error {
	var raw struct {
		Damage *uint `json:"damage"`
		Range  *uint `json:"range"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Damage == nil {
		return errMissing("damage")
	}
	if raw.Range == nil {
		return errMissing("range")
	}
	w.Damage = *raw.Damage
	w.Range = *raw.Range
	return nil
}

func (p *Powerup) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  *PowerupType `json:"type"`
		Value *uint        `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == nil {
		return errMissing("type")
	}
	if raw.Value == nil {
		return errMissing("value")
	}
	p.Type = *raw.Type
	p.Value = *raw.Value
	return nil
}

func (w *PlayerWorm) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            *uint     `json:"id"`
		Health        *uint     `json:"health"`
		Position      *Position `json:"position"`
		Weapon        *Weapon   `json:"weapon"`
		DiggingRange  *uint     `json:"diggingRange"`
		MovementRange *uint     `json:"movementRange"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errMissing("id")
	}
	if raw.Health == nil {
		return errMissing("health")
	}
	if raw.Position == nil {
		return errMissing("position")
	}
	if raw.Weapon == nil {
		return errMissing("weapon")
	}
	if raw.DiggingRange == nil {
		return errMissing("diggingRange")
	}
	if raw.MovementRange == nil {
		return errMissing("movementRange")
	}
	w.ID = *raw.ID
	w.Health = *raw.Health
	w.Position = *raw.Position
	w.Weapon = *raw.Weapon
	w.DiggingRange = *raw.DiggingRange
	w.MovementRange = *raw.MovementRange
	return nil
}

func (w *OpponentWorm) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            *uint     `json:"id"`
		Health        *uint     `json:"health"`
		Position      *Position `json:"position"`
		DiggingRange  *uint     `json:"diggingRange"`
		MovementRange *uint     `json:"movementRange"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errMissing("id")
	}
	if raw.Health == nil {
		return errMissing("health")
	}
	if raw.Position == nil {
		return errMissing("position")
	}
	if raw.DiggingRange == nil {
		return errMissing("diggingRange")
	}
	if raw.MovementRange == nil {
		return errMissing("movementRange")
	}
	w.ID = *raw.ID
	w.Health = *raw.Health
	w.Position = *raw.Position
	w.DiggingRange = *raw.DiggingRange
	w.MovementRange = *raw.MovementRange
	return nil
}

func (p *Player) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     *uint        `json:"id"`
		Score  *uint        `json:"score"`
		Health *uint        `json:"health"`
		Worms  []PlayerWorm `json:"worms"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errMissing("id")
	}
	if raw.Score == nil {
		return errMissing("score")
	}
	if raw.Health == nil {
		return errMissing("health")
	}
	if raw.Worms == nil {
		return errMissing("worms")
	}
	p.ID = *raw.ID
	p.Score = *raw.Score
	p.Health = *raw.Health
	p.Worms = raw.Worms
	return nil
}

func (o *Opponent) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    *uint          `json:"id"`
		Score *uint          `json:"score"`
		Worms []OpponentWorm `json:"worms"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errMissing("id")
	}
	if raw.Score == nil {
		return errMissing("score")
	}
	if raw.Worms == nil {
		return errMissing("worms")
	}
	o.ID = *raw.ID
	o.Score = *raw.Score
	o.Worms = raw.Worms
	return nil
}

// UnmarshalJSON resolves the occupier's owner structurally. The worm shape
// that carries weapon stats is tried first; when the weapon payload does not
// match, the occupier is decoded as an opponent worm and the weapon data is
// ignored. Fields shared by both shapes are always required.
func (w *CellWorm) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            *uint           `json:"id"`
		PlayerID      *uint           `json:"playerId"`
		Health        *uint           `json:"health"`
		Position      *Position       `json:"position"`
		DiggingRange  *uint           `json:"diggingRange"`
		MovementRange *uint           `json:"movementRange"`
		Weapon        json.RawMessage `json:"weapon"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return errMissing("id")
	}
	if raw.PlayerID == nil {
		return errMissing("playerId")
	}
	if raw.Health == nil {
		return errMissing("health")
	}
	if raw.Position == nil {
		return errMissing("position")
	}
	if raw.DiggingRange == nil {
		return errMissing("diggingRange")
	}
	if raw.MovementRange == nil {
		return errMissing("movementRange")
	}
	w.ID = *raw.ID
	w.PlayerID = *raw.PlayerID
	w.Health = *raw.Health
	w.Position = *raw.Position
	w.DiggingRange = *raw.DiggingRange
	w.MovementRange = *raw.MovementRange
	w.Weapon = nil
	if valuePresent(raw.Weapon) {
		var weapon Weapon
		if err := json.Unmarshal(raw.Weapon, &weapon); err == nil {
			w.Weapon = &weapon
		}
	}
	return nil
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw struct {
		X        *uint           `json:"x"`
		Y        *uint           `json:"y"`
		Type     *CellType       `json:"type"`
		Occupier json.RawMessage `json:"occupier"`
		Powerup  json.RawMessage `json:"powerup"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.X == nil {
		return errMissing("x")
	}
	if raw.Y == nil {
		return errMissing("y")
	}
	if raw.Type == nil {
		return errMissing("type")
	}
	c.X = *raw.X
	c.Y = *raw.Y
	c.Type = *raw.Type
	c.Occupier = nil
	c.Powerup = nil
	if valuePresent(raw.Occupier) {
		var worm CellWorm
		if err := json.Unmarshal(raw.Occupier, &worm); err != nil {
			return fmt.Errorf("cell (%d,%d) occupier: %w", c.X, c.Y, err)
		}
		c.Occupier = &worm
	}
	if valuePresent(raw.Powerup) {
		var powerup Powerup
		if err := json.Unmarshal(raw.Powerup, &powerup); err != nil {
			return fmt.Errorf("cell (%d,%d) powerup: %w", c.X, c.Y, err)
		}
		c.Powerup = &powerup
	}
	return nil
}

func (s *State) UnmarshalJSON(data []byte) error {
	var raw struct {
		CurrentRound              *uint           `json:"currentRound"`
		MaxRounds                 *uint           `json:"maxRounds"`
		MapSize                   *uint           `json:"mapSize"`
		CurrentWormID             *uint           `json:"currentWormId"`
		ConsecutiveDoNothingCount *uint           `json:"consecutiveDoNothingCount"`
		MyPlayer                  json.RawMessage `json:"myPlayer"`
		Opponents                 json.RawMessage `json:"opponents"`
		Map                       json.RawMessage `json:"map"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.CurrentRound == nil {
		return errMissing("currentRound")
	}
	if raw.MaxRounds == nil {
		return errMissing("maxRounds")
	}
	if raw.MapSize == nil {
		return errMissing("mapSize")
	}
	if raw.CurrentWormID == nil {
		return errMissing("currentWormId")
	}
	if raw.ConsecutiveDoNothingCount == nil {
		return errMissing("consecutiveDoNothingCount")
	}
	if !valuePresent(raw.MyPlayer) {
		return errMissing("myPlayer")
	}
	if !valuePresent(raw.Opponents) {
		return errMissing("opponents")
	}
	if !valuePresent(raw.Map) {
		return errMissing("map")
	}
	s.CurrentRound = *raw.CurrentRound
	s.MaxRounds = *raw.MaxRounds
	s.MapSize = *raw.MapSize
	s.CurrentWormID = *raw.CurrentWormID
	s.ConsecutiveDoNothingCount = *raw.ConsecutiveDoNothingCount
	if err := json.Unmarshal(raw.MyPlayer, &s.MyPlayer); err != nil {
		return fmt.Errorf("myPlayer: %w", err)
	}
	if err := json.Unmarshal(raw.Opponents, &s.Opponents); err != nil {
		return fmt.Errorf("opponents: %w", err)
	}
	if err := json.Unmarshal(raw.Map, &s.Map); err != nil {
		return fmt.Errorf("map: %w", err)
	}
	return nil
}
