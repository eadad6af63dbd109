// Package state models the round snapshot for the 2019 Worms game and loads
// it from the JSON files the match runner produces.
//
// The state package implements the snapshot handling including:
//   - Strict JSON decoding of round state files
//   - The map grid of typed cells with occupying worms and powerups
//   - Bounds-checked coordinate arithmetic
//   - Lookups for the active worm and for individual cells
//   - Structural validation of decoded snapshots
//
// Core Types:
//
// State is the root snapshot deserialized from a state.json document.
// Player and Opponent carry their worm rosters, Cell describes one map
// square, and Position, Weapon and Powerup are the small value types the
// rest of the tooling shares.
//
// Usage:
//
//	st, err := state.LoadState("rounds/42/state.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	worm := st.ActiveWorm()
//	cell := st.CellAt(worm.Position)
//
// Decoding Rules:
//
// Decoding is strict. Required fields must be present, terrain and powerup
// tokens must come from the known sets, and occupier payloads are matched
// structurally: a worm carrying weapon stats belongs to the controlling
// player, one without belongs to an opponent. A document that violates the
// schema fails with ErrInvalidState instead of producing a partially filled
// snapshot, and a file that cannot be read fails with ErrStateUnreadable.
package state
