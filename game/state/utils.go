package state

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) uint {
	dx := from.X - to.X
	if from.X < to.X {
		dx = to.X - from.X
	}
	dy := from.Y - to.Y
	if from.Y < to.Y {
		dy = to.Y - from.Y
	}
	return dx + dy
}

// CountCellType counts the cells of a specific terrain type in the grid
func CountCellType(grid [][]Cell, cellType CellType) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell.Type == cellType {
				count++
			}
		}
	}
	return count
}

// PowerupCells returns pointers to every cell carrying a powerup
func PowerupCells(grid [][]Cell) []*Cell {
	var cells []*Cell
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x].Powerup != nil {
				cells = append(cells, &grid[y][x])
			}
		}
	}
	return cells
}

// OccupiedCells returns pointers to every cell carrying a worm
func OccupiedCells(grid [][]Cell) []*Cell {
	var cells []*Cell
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x].Occupier != nil {
				cells = append(cells, &grid[y][x])
			}
		}
	}
	return cells
}

// FindNearestPowerup finds the closest powerup to a position and returns its
// position and distance
func FindNearestPowerup(s *State, from Position) (Position, uint, bool) {
	var nearestPos Position
	var minDistance uint
	found := false

	for y := range s.Map {
		for x := range s.Map[y] {
			cell := &s.Map[y][x]
			if cell.Powerup == nil {
				continue
			}
			pos := Position{X: cell.X, Y: cell.Y}
			distance := ManhattanDistance(from, pos)
			if !found || distance < minDistance {
				minDistance = distance
				nearestPos = pos
				found = true
			}
		}
	}

	return nearestPos, minDistance, found
}

// FindNearestOpponentWorm finds the opposing worm closest to a position and
// returns its position and distance
func FindNearestOpponentWorm(s *State, from Position) (Position, uint, bool) {
	var nearestPos Position
	var minDistance uint
	found := false

	for i := range s.Opponents {
		for j := range s.Opponents[i].Worms {
			worm := &s.Opponents[i].Worms[j]
			distance := ManhattanDistance(from, worm.Position)
			if !found || distance < minDistance {
				minDistance = distance
				nearestPos = worm.Position
				found = true
			}
		}
	}

	return nearestPos, minDistance, found
}

// Opponent returns the opponent with the given player id, or nil when the
// snapshot does not include it.
func (s *State) Opponent(playerID uint) *Opponent {
	for i := range s.Opponents {
		if s.Opponents[i].ID == playerID {
			return &s.Opponents[i]
		}
	}
	return nil
}
