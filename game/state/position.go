package state

// Directional helpers translate a position across the grid. Each returns the
// moved position and whether the move stays on the map; coordinates never
// wrap past an edge. North is toward row zero.

// West returns the position distance cells to the west.
func (p Position) West(distance uint) (Position, bool) {
	if distance > p.X {
		return Position{}, false
	}
	return Position{X: p.X - distance, Y: p.Y}, true
}

// East returns the position distance cells to the east, which must stay
// below mapSize.
func (p Position) East(distance, mapSize uint) (Position, bool) {
	x := p.X + distance
	if x < p.X || x >= mapSize {
		return Position{}, false
	}
	return Position{X: x, Y: p.Y}, true
}

// North returns the position distance cells to the north.
func (p Position) North(distance uint) (Position, bool) {
	if distance > p.Y {
		return Position{}, false
	}
	return Position{X: p.X, Y: p.Y - distance}, true
}

// South returns the position distance cells to the south, which must stay
// below mapSize.
func (p Position) South(distance, mapSize uint) (Position, bool) {
	y := p.Y + distance
	if y < p.Y || y >= mapSize {
		return Position{}, false
	}
	return Position{X: p.X, Y: y}, true
}
