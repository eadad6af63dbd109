package state

import "fmt"

// ActiveWorm returns the player's worm selected to act this round.
//
// The match runner guarantees currentWormId references one of the player's
// worms. A snapshot where it does not is corrupt, so the lookup panics
// instead of returning an error.
func (s *State) ActiveWorm() *PlayerWorm {
	for i := range s.MyPlayer.Worms {
		if s.MyPlayer.Worms[i].ID == s.CurrentWormID {
			return &s.MyPlayer.Worms[i]
		}
	}
	panic(fmt.Sprintf("state: active worm id %d not found in player's worms", s.CurrentWormID))
}

// CellAt returns the map cell carrying the given coordinates, located by
// scanning the grid.
//
// Every in-bounds position exists in a well-formed snapshot. A miss means
// the snapshot is corrupt, so the lookup panics instead of returning an
// error; callers working with unchecked coordinates should bounds-check
// against MapSize first.
func (s *State) CellAt(pos Position) *Cell {
	for y := range s.Map {
		for x := range s.Map[y] {
			if s.Map[y][x].X == pos.X && s.Map[y][x].Y == pos.Y {
				return &s.Map[y][x]
			}
		}
	}
	panic(fmt.Sprintf("state: no cell at position (%d,%d)", pos.X, pos.Y))
}
