package state

import "fmt"

// ValidateState checks the structural guarantees the match runner makes for
// every snapshot it writes: the grid is mapSize rows of mapSize cells, each
// cell carries its own grid coordinates, worm positions are in bounds, the
// active worm id resolves, and the round counter respects the round limit.
// It returns the first violation found.
//
// Decoding deliberately does not run these checks. ParseState enforces the
// wire schema only, so diagnostic tools can still inspect snapshots that
// break the runner's guarantees.
func ValidateState(s *State) error {
	if s.MaxRounds > 0 && s.CurrentRound > s.MaxRounds {
		return fmt.Errorf("state validation: currentRound %d exceeds maxRounds %d", s.CurrentRound, s.MaxRounds)
	}

	// Validate grid dimensions
	if uint(len(s.Map)) != s.MapSize {
		return fmt.Errorf("state validation: map has %d rows, expected mapSize %d", len(s.Map), s.MapSize)
	}
	for y := range s.Map {
		if uint(len(s.Map[y])) != s.MapSize {
			return fmt.Errorf("state validation: map row %d has %d cells, expected mapSize %d", y, len(s.Map[y]), s.MapSize)
		}
	}

	// Validate cell coordinates and occupiers
	for y := range s.Map {
		for x := range s.Map[y] {
			cell := &s.Map[y][x]
			if cell.X != uint(x) || cell.Y != uint(y) {
				return fmt.Errorf("state validation: cell at row %d column %d carries coordinates (%d,%d)", y, x, cell.X, cell.Y)
			}
			if cell.Occupier != nil && (cell.Occupier.Position.X != cell.X || cell.Occupier.Position.Y != cell.Y) {
				return fmt.Errorf("state validation: occupier of cell (%d,%d) reports position (%d,%d)",
					cell.X, cell.Y, cell.Occupier.Position.X, cell.Occupier.Position.Y)
			}
		}
	}

	// Validate worm positions
	for i := range s.MyPlayer.Worms {
		worm := &s.MyPlayer.Worms[i]
		if worm.Position.X >= s.MapSize || worm.Position.Y >= s.MapSize {
			return fmt.Errorf("state validation: player worm %d at (%d,%d) is outside the %dx%d map",
				worm.ID, worm.Position.X, worm.Position.Y, s.MapSize, s.MapSize)
		}
	}
	for i := range s.Opponents {
		for j := range s.Opponents[i].Worms {
			worm := &s.Opponents[i].Worms[j]
			if worm.Position.X >= s.MapSize || worm.Position.Y >= s.MapSize {
				return fmt.Errorf("state validation: opponent %d worm %d at (%d,%d) is outside the %dx%d map",
					s.Opponents[i].ID, worm.ID, worm.Position.X, worm.Position.Y, s.MapSize, s.MapSize)
			}
		}
	}

	// Validate the active worm reference
	found := false
	for i := range s.MyPlayer.Worms {
		if s.MyPlayer.Worms[i].ID == s.CurrentWormID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("state validation: currentWormId %d does not match any of the player's worms", s.CurrentWormID)
	}

	return nil
}
