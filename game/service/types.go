package service

import (
	"time"

	"github.com/maxringtail/2019-Worms/game/state"
)

// StateInfo summarizes the snapshot the service currently holds
type StateInfo struct {
	Source       string         `json:"source"`
	LoadedAt     time.Time      `json:"loaded_at"`
	Round        uint           `json:"round"`
	MaxRounds    uint           `json:"max_rounds"`
	MapSize      uint           `json:"map_size"`
	ActiveWormID uint           `json:"active_worm_id"`
	MyPlayer     PlayerDigest   `json:"my_player"`
	Opponents    []PlayerDigest `json:"opponents"`
}

// StateDocument pairs the raw snapshot with its provenance
type StateDocument struct {
	Source   string       `json:"source"`
	LoadedAt time.Time    `json:"loaded_at"`
	State    *state.State `json:"state"`
}

// PlayerDigest is a compact view of one player's standing
type PlayerDigest struct {
	ID         uint `json:"id"`
	Score      uint `json:"score"`
	Health     uint `json:"health,omitempty"` // omitted for opponents, the runner hides it
	WormCount  int  `json:"worm_count"`
	AliveWorms int  `json:"alive_worms"`
}

// TerrainCounts is a histogram of the map's cell types
type TerrainCounts struct {
	Air       int `json:"air"`
	Dirt      int `json:"dirt"`
	DeepSpace int `json:"deep_space"`
}

// PowerupInfo describes a powerup lying on the map
type PowerupInfo struct {
	Type     string         `json:"type"`
	Value    uint           `json:"value"`
	Position state.Position `json:"position"`
}

// WormInfo describes a single worm. Weapon is present only for worms owned
// by the controlling player.
type WormInfo struct {
	ID            uint           `json:"id"`
	PlayerID      uint           `json:"player_id"`
	Health        uint           `json:"health"`
	Position      state.Position `json:"position"`
	DiggingRange  uint           `json:"digging_range"`
	MovementRange uint           `json:"movement_range"`
	Weapon        *state.Weapon  `json:"weapon,omitempty"`
	Allied        bool           `json:"allied"`
}

// CellInfo describes a single map cell for inspection
type CellInfo struct {
	X        uint         `json:"x"`
	Y        uint         `json:"y"`
	Type     string       `json:"type"`
	Char     string       `json:"char"`
	Passable bool         `json:"passable"`
	Diggable bool         `json:"diggable"`
	Occupier *WormInfo    `json:"occupier,omitempty"`
	Powerup  *PowerupInfo `json:"powerup,omitempty"`
}

// StateSummary aggregates the interesting facts of the current snapshot
type StateSummary struct {
	Round                uint           `json:"round"`
	MaxRounds            uint           `json:"max_rounds"`
	MapSize              uint           `json:"map_size"`
	DoNothingCount       uint           `json:"do_nothing_count"`
	ActiveWorm           WormInfo       `json:"active_worm"`
	MyPlayer             PlayerDigest   `json:"my_player"`
	Opponents            []PlayerDigest `json:"opponents"`
	Terrain              TerrainCounts  `json:"terrain"`
	Powerups             []PowerupInfo  `json:"powerups"`
	NearestEnemyDistance uint           `json:"nearest_enemy_distance,omitempty"`
}
