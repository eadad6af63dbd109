package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/maxringtail/2019-Worms/game/rounds"
	"github.com/maxringtail/2019-Worms/game/state"
)

// stateServiceImpl implements the StateService interface
type stateServiceImpl struct {
	rounds *rounds.Reader // nil when no rounds directory is available

	mu       sync.RWMutex
	current  *state.State
	source   string
	loadedAt time.Time
}

// NewStateService creates a new snapshot inspection service. The rounds
// reader may be nil; round-based operations then fail with ErrNoRoundsDir.
func NewStateService(roundsReader *rounds.Reader) StateService {
	return &stateServiceImpl{
		rounds: roundsReader,
	}
}

// LoadFromFile loads a snapshot from an explicit state file
func (s *stateServiceImpl) LoadFromFile(ctx context.Context, path string) (*StateInfo, error) {
	st, err := state.LoadState(path)
	if err != nil {
		return nil, err
	}
	return s.adopt(st, path)
}

// LoadRound loads the snapshot of a specific round from the rounds directory
func (s *stateServiceImpl) LoadRound(ctx context.Context, round uint) (*StateInfo, error) {
	if s.rounds == nil {
		return nil, ErrNoRoundsDir
	}
	st, err := s.rounds.Load(round)
	if err != nil {
		return nil, err
	}
	return s.adopt(st, s.rounds.StatePath(round))
}

// LoadLatest loads the newest round the runner has written
func (s *stateServiceImpl) LoadLatest(ctx context.Context) (*StateInfo, error) {
	if s.rounds == nil {
		return nil, ErrNoRoundsDir
	}
	round, st, err := s.rounds.LoadLatest()
	if err != nil {
		return nil, err
	}
	return s.adopt(st, s.rounds.StatePath(round))
}

// adopt validates a freshly loaded snapshot and makes it the current one.
// Rejecting inconsistent snapshots here keeps the panicking accessors safe
// for every later inspection call.
func (s *stateServiceImpl) adopt(st *state.State, source string) (*StateInfo, error) {
	if err := state.ValidateState(st); err != nil {
		return nil, fmt.Errorf("rejecting snapshot from %s: %w", source, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = st
	s.source = source
	s.loadedAt = time.Now()
	return s.buildStateInfo(), nil
}

// Current returns information about the currently held snapshot
func (s *stateServiceImpl) Current(ctx context.Context) (*StateInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoState
	}
	return s.buildStateInfo(), nil
}

// GameState returns the raw snapshot together with its provenance
func (s *stateServiceImpl) GameState(ctx context.Context) (*StateDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoState
	}
	return &StateDocument{
		Source:   s.source,
		LoadedAt: s.loadedAt,
		State:    s.current,
	}, nil
}

// Summary aggregates the interesting facts of the current snapshot
func (s *stateServiceImpl) Summary(ctx context.Context) (*StateSummary, error) {
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	active := st.ActiveWorm()
	summary := &StateSummary{
		Round:          st.CurrentRound,
		MaxRounds:      st.MaxRounds,
		MapSize:        st.MapSize,
		DoNothingCount: st.ConsecutiveDoNothingCount,
		ActiveWorm:     playerWormInfo(st.MyPlayer.ID, active),
		MyPlayer:       myPlayerDigest(&st.MyPlayer),
		Terrain: TerrainCounts{
			Air:       state.CountCellType(st.Map, state.Air),
			Dirt:      state.CountCellType(st.Map, state.Dirt),
			DeepSpace: state.CountCellType(st.Map, state.DeepSpace),
		},
	}

	for i := range st.Opponents {
		summary.Opponents = append(summary.Opponents, opponentDigest(&st.Opponents[i]))
	}
	for _, cell := range state.PowerupCells(st.Map) {
		summary.Powerups = append(summary.Powerups, powerupInfo(cell))
	}
	if _, distance, found := state.FindNearestOpponentWorm(st, active.Position); found {
		summary.NearestEnemyDistance = distance
	}

	return summary, nil
}

// ActiveWorm returns the worm selected to act in the current round
func (s *stateServiceImpl) ActiveWorm(ctx context.Context) (*WormInfo, error) {
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	info := playerWormInfo(st.MyPlayer.ID, st.ActiveWorm())
	return &info, nil
}

// DescribeCell returns details about one map cell. Coordinates are validated
// here so callers get a recoverable error instead of a snapshot-corruption
// panic.
func (s *stateServiceImpl) DescribeCell(ctx context.Context, x, y uint) (*CellInfo, error) {
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if x >= st.MapSize || y >= st.MapSize {
		return nil, fmt.Errorf("coordinates (%d,%d) are out of bounds, map size is %dx%d",
			x, y, st.MapSize, st.MapSize)
	}

	cell := st.CellAt(state.Position{X: x, Y: y})
	char, _ := cellCharAndName(cell)
	info := &CellInfo{
		X:        cell.X,
		Y:        cell.Y,
		Type:     string(cell.Type),
		Char:     char,
		Passable: cell.Type == state.Air,
		Diggable: cell.Type == state.Dirt,
	}
	if cell.Occupier != nil {
		occupier := cellWormInfo(cell.Occupier)
		info.Occupier = &occupier
	}
	if cell.Powerup != nil {
		powerup := powerupInfo(cell)
		info.Powerup = &powerup
	}
	return info, nil
}

// RenderMap renders the snapshot grid as one string per row
func (s *stateServiceImpl) RenderMap(ctx context.Context) ([]string, error) {
	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	rows := make([]string, 0, len(st.Map))
	for y := range st.Map {
		var row strings.Builder
		for x := range st.Map[y] {
			char, _ := cellCharAndName(&st.Map[y][x])
			row.WriteString(char)
		}
		rows = append(rows, row.String())
	}
	return rows, nil
}

// ListRounds returns the round numbers available in the rounds directory
func (s *stateServiceImpl) ListRounds(ctx context.Context) ([]uint, error) {
	if s.rounds == nil {
		return nil, ErrNoRoundsDir
	}
	return s.rounds.List()
}

// snapshot returns the current snapshot or ErrNoState. The pointer stays
// valid after unlocking because loads replace the snapshot wholesale.
func (s *stateServiceImpl) snapshot() (*state.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoState
	}
	return s.current, nil
}

// buildStateInfo summarizes the held snapshot. Callers must hold the mutex.
func (s *stateServiceImpl) buildStateInfo() *StateInfo {
	st := s.current
	info := &StateInfo{
		Source:       s.source,
		LoadedAt:     s.loadedAt,
		Round:        st.CurrentRound,
		MaxRounds:    st.MaxRounds,
		MapSize:      st.MapSize,
		ActiveWormID: st.CurrentWormID,
		MyPlayer:     myPlayerDigest(&st.MyPlayer),
	}
	for i := range st.Opponents {
		info.Opponents = append(info.Opponents, opponentDigest(&st.Opponents[i]))
	}
	return info
}

// Digest and info builders

func myPlayerDigest(p *state.Player) PlayerDigest {
	digest := PlayerDigest{
		ID:        p.ID,
		Score:     p.Score,
		Health:    p.Health,
		WormCount: len(p.Worms),
	}
	for i := range p.Worms {
		if p.Worms[i].Health > 0 {
			digest.AliveWorms++
		}
	}
	return digest
}

func opponentDigest(o *state.Opponent) PlayerDigest {
	digest := PlayerDigest{
		ID:        o.ID,
		Score:     o.Score,
		WormCount: len(o.Worms),
	}
	for i := range o.Worms {
		if o.Worms[i].Health > 0 {
			digest.AliveWorms++
		}
	}
	return digest
}

func playerWormInfo(playerID uint, w *state.PlayerWorm) WormInfo {
	return WormInfo{
		ID:            w.ID,
		PlayerID:      playerID,
		Health:        w.Health,
		Position:      w.Position,
		DiggingRange:  w.DiggingRange,
		MovementRange: w.MovementRange,
		Weapon:        &w.Weapon,
		Allied:        true,
	}
}

func cellWormInfo(w *state.CellWorm) WormInfo {
	return WormInfo{
		ID:            w.ID,
		PlayerID:      w.PlayerID,
		Health:        w.Health,
		Position:      w.Position,
		DiggingRange:  w.DiggingRange,
		MovementRange: w.MovementRange,
		Weapon:        w.Weapon,
		Allied:        w.Allied(),
	}
}

func powerupInfo(cell *state.Cell) PowerupInfo {
	return PowerupInfo{
		Type:     string(cell.Powerup.Type),
		Value:    cell.Powerup.Value,
		Position: state.Position{X: cell.X, Y: cell.Y},
	}
}

// cellCharAndName maps a cell to its display character and a lowercase type
// name. Worms and powerups take precedence over the terrain.
func cellCharAndName(cell *state.Cell) (string, string) {
	if cell.Occupier != nil {
		if cell.Occupier.Allied() {
			return "W", "allied worm"
		}
		return "E", "enemy worm"
	}
	if cell.Powerup != nil {
		return "+", "powerup"
	}
	switch cell.Type {
	case state.Air:
		return ".", "air"
	case state.Dirt:
		return "#", "dirt"
	case state.DeepSpace:
		return " ", "deep space"
	default:
		return "?", "unknown"
	}
}
