package state

// CellType represents the terrain of a map cell
type CellType string

const (
	Air       CellType = "AIR"
	Dirt      CellType = "DIRT"
	DeepSpace CellType = "DEEP_SPACE"
)

// PowerupType represents the kind of a collectible powerup
type PowerupType string

const (
	HealthPack PowerupType = "HEALTH_PACK"
)

// Position represents x,y coordinates on the map grid
type Position struct {
	X uint `json:"x"`
	Y uint `json:"y"`
}

// Weapon holds the weapon stats the engine reveals for the player's own worms
type Weapon struct {
	Damage uint `json:"damage"`
	Range  uint `json:"range"`
}

// Powerup is a collectible item lying on a map cell
type Powerup struct {
	Type  PowerupType `json:"type"`
	Value uint        `json:"value"`
}

// PlayerWorm is one of the controlling player's worms, with full stats
type PlayerWorm struct {
	ID            uint     `json:"id"`
	Health        uint     `json:"health"`
	Position      Position `json:"position"`
	Weapon        Weapon   `json:"weapon"`
	DiggingRange  uint     `json:"diggingRange"`
	MovementRange uint     `json:"movementRange"`
}

// OpponentWorm is an opposing worm. The engine hides opponent weapon stats.
type OpponentWorm struct {
	ID            uint     `json:"id"`
	Health        uint     `json:"health"`
	Position      Position `json:"position"`
	DiggingRange  uint     `json:"diggingRange"`
	MovementRange uint     `json:"movementRange"`
}

// Player is the controlling player as reported to its own bot
type Player struct {
	ID     uint         `json:"id"`
	Score  uint         `json:"score"`
	Health uint         `json:"health"`
	Worms  []PlayerWorm `json:"worms"`
}

// Opponent is an opposing player with the reduced visibility the engine
// grants over other bots
type Opponent struct {
	ID    uint           `json:"id"`
	Score uint           `json:"score"`
	Worms []OpponentWorm `json:"worms"`
}

// CellWorm is a worm standing on a map cell. The wire format carries no
// discriminator field: an occupier that includes weapon stats is one of the
// controlling player's worms, one without belongs to an opponent.
type CellWorm struct {
	ID            uint     `json:"id"`
	PlayerID      uint     `json:"playerId"`
	Health        uint     `json:"health"`
	Position      Position `json:"position"`
	DiggingRange  uint     `json:"diggingRange"`
	MovementRange uint     `json:"movementRange"`
	Weapon        *Weapon  `json:"weapon,omitempty"`
}

// Allied reports whether the occupier decoded as one of the controlling
// player's worms, i.e. the weapon-bearing shape matched.
func (w *CellWorm) Allied() bool {
	return w.Weapon != nil
}

// Cell is a single square of the map grid. Occupier and Powerup are nil when
// the square is empty.
type Cell struct {
	X        uint      `json:"x"`
	Y        uint      `json:"y"`
	Type     CellType  `json:"type"`
	Occupier *CellWorm `json:"occupier,omitempty"`
	Powerup  *Powerup  `json:"powerup,omitempty"`
}

// State is the complete snapshot of one round as written by the match runner
type State struct {
	CurrentRound              uint       `json:"currentRound"`
	MaxRounds                 uint       `json:"maxRounds"`
	MapSize                   uint       `json:"mapSize"`
	CurrentWormID             uint       `json:"currentWormId"`
	ConsecutiveDoNothingCount uint       `json:"consecutiveDoNothingCount"`
	MyPlayer                  Player     `json:"myPlayer"`
	Opponents                 []Opponent `json:"opponents"`
	Map                       [][]Cell   `json:"map"`
}
