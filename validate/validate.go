// Command validate provides a small CLI that validates round snapshot JSON
// files. Without arguments it scans rounds/*/state.json; otherwise it checks
// the files named on the command line. It checks:
//   - JSON structure, required fields, and enum tokens (via the state loader)
//   - Grid consistency and cell coordinate invariants
//   - Worm positions inside the map and the active worm reference
//   - Occupier entries matching a worm in the player or opponent rosters
//   - The snapshot's round number matching its rounds/<round>/ directory
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/maxringtail/2019-Worms/game/state"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateSnapshot loads and validates a single round snapshot file.
// It runs the loader, the state invariants, and cross-checks the grid's
// occupiers against the player and opponent rosters.
func validateSnapshot(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filePath,
		Valid:  true,
		Errors: []string{},
	}

	st, err := state.LoadState(filePath)
	if err != nil {
		result.Valid = false
		switch {
		case errors.Is(err, state.ErrStateUnreadable):
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		case errors.Is(err, state.ErrInvalidState):
			result.Errors = append(result.Errors, fmt.Sprintf("Invalid snapshot: %v", err))
		default:
			result.Errors = append(result.Errors, err.Error())
		}
		return result
	}

	if err := state.ValidateState(st); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	// Duplicate worm ids within a roster would make currentWormId ambiguous
	seen := map[uint]bool{}
	for i := range st.MyPlayer.Worms {
		id := st.MyPlayer.Worms[i].ID
		if seen[id] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate player worm id %d", id))
		}
		seen[id] = true
	}

	// Cross-check occupiers against the rosters
	if result.Valid {
		rosterResult := validateOccupiers(st)
		result.Errors = append(result.Errors, rosterResult.Errors...)
		if !rosterResult.Valid {
			result.Valid = false
		}
	}

	// The directory name is the round number when the runner wrote the file
	if round, ok := roundFromPath(filePath); ok && round != st.CurrentRound {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Directory says round %d but snapshot says round %d", round, st.CurrentRound))
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Round: %d/%d", st.CurrentRound, st.MaxRounds))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Map: %dx%d", st.MapSize, st.MapSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Player worms: %d", len(st.MyPlayer.Worms)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Opponents: %d", len(st.Opponents)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Active worm: %d", st.CurrentWormID))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Powerups: %d", len(state.PowerupCells(st.Map))))
	}

	return result
}

// validateOccupiers checks that every occupier on the grid corresponds to a
// worm in the matching roster, at the position the roster reports.
func validateOccupiers(st *state.State) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	occupied := state.OccupiedCells(st.Map)
	for _, cell := range occupied {
		worm := cell.Occupier

		if worm.Allied() {
			if worm.PlayerID != st.MyPlayer.ID {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf(
					"Occupier at (%d,%d) carries a weapon but playerId %d is not the controlling player", cell.X, cell.Y, worm.PlayerID))
				continue
			}
			if !playerRosterHas(st, worm.ID, cell.X, cell.Y) {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf(
					"Occupier at (%d,%d) does not match any player worm", cell.X, cell.Y))
			}
			continue
		}

		opponent := st.Opponent(worm.PlayerID)
		if opponent == nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Occupier at (%d,%d) references unknown opponent %d", cell.X, cell.Y, worm.PlayerID))
			continue
		}
		if !opponentRosterHas(opponent, worm.ID, cell.X, cell.Y) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Occupier at (%d,%d) does not match any worm of opponent %d", cell.X, cell.Y, worm.PlayerID))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Occupiers: %d, all match their rosters", len(occupied)))
	}

	return result
}

func playerRosterHas(st *state.State, id, x, y uint) bool {
	for i := range st.MyPlayer.Worms {
		w := &st.MyPlayer.Worms[i]
		if w.ID == id && w.Position.X == x && w.Position.Y == y {
			return true
		}
	}
	return false
}

func opponentRosterHas(o *state.Opponent, id, x, y uint) bool {
	for i := range o.Worms {
		w := &o.Worms[i]
		if w.ID == id && w.Position.X == x && w.Position.Y == y {
			return true
		}
	}
	return false
}

// roundFromPath extracts the round number from a rounds/<round>/state.json
// path. The second return is false for paths outside that layout.
func roundFromPath(filePath string) (uint, bool) {
	dir := filepath.Base(filepath.Dir(filePath))
	round, err := strconv.ParseUint(dir, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(round), true
}

// main validates the snapshot files named on the command line, or every
// rounds/*/state.json when called without arguments, printing a concise
// report and exiting with non-zero status if any are invalid.
func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join("rounds", "*", "state.json"))
		if err != nil {
			fmt.Printf("Error finding snapshot files: %v\n", err)
			os.Exit(1)
		}
	}

	if len(files) == 0 {
		fmt.Println("No snapshot files found (expected rounds/*/state.json or explicit arguments)")
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateSnapshot(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All snapshots are valid!")
	} else {
		fmt.Println("❌ Some snapshots have errors")
		os.Exit(1)
	}
}
