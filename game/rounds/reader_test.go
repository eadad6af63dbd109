package rounds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxringtail/2019-Worms/game/state"
)

// roundStateJSON renders a minimal complete snapshot for a given round.
func roundStateJSON(round uint) string {
	return fmt.Sprintf(`{
		"currentRound": %d,
		"maxRounds": 200,
		"mapSize": 1,
		"currentWormId": 1,
		"consecutiveDoNothingCount": 0,
		"myPlayer": {
			"id": 1,
			"score": 10,
			"health": 100,
			"worms": [
				{
					"id": 1,
					"health": 100,
					"position": {"x": 0, "y": 0},
					"weapon": {"damage": 1, "range": 3},
					"diggingRange": 1,
					"movementRange": 1
				}
			]
		},
		"opponents": [],
		"map": [[{"x": 0, "y": 0, "type": "AIR"}]]
	}`, round)
}

// writeRound materializes rounds/<n>/state.json the way the runner does.
func writeRound(t *testing.T, dir string, round uint) {
	t.Helper()
	roundDir := filepath.Join(dir, fmt.Sprintf("%d", round))
	if err := os.MkdirAll(roundDir, 0755); err != nil {
		t.Fatalf("Failed to create round directory: %v", err)
	}
	path := filepath.Join(roundDir, "state.json")
	if err := os.WriteFile(path, []byte(roundStateJSON(round)), 0644); err != nil {
		t.Fatalf("Failed to write state file: %v", err)
	}
}

func TestNewReaderMissingDirectory(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "rounds"))
	if err == nil {
		t.Fatalf("Expected an error for a missing rounds directory")
	}
}

func TestNewReaderRejectsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rounds")
	if err := os.WriteFile(path, []byte("not a directory"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := NewReader(path)
	if err == nil {
		t.Fatalf("Expected an error for a rounds path that is a file")
	}
}

func TestListSkipsForeignEntries(t *testing.T) {
	dir := t.TempDir()
	writeRound(t, dir, 1)
	writeRound(t, dir, 3)
	writeRound(t, dir, 10)

	// Entries the runner never writes: a stray file, a non-numeric
	// directory, and a round directory without a state file.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write stray file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "replay"), 0755); err != nil {
		t.Fatalf("Failed to create stray directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "5"), 0755); err != nil {
		t.Fatalf("Failed to create empty round directory: %v", err)
	}

	reader, err := NewReader(dir)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}

	numbers, err := reader.List()
	if err != nil {
		t.Fatalf("Failed to list rounds: %v", err)
	}

	expected := []uint{1, 3, 10}
	if len(numbers) != len(expected) {
		t.Fatalf("Expected %d rounds, got %d: %v", len(expected), len(numbers), numbers)
	}
	for i, n := range expected {
		if numbers[i] != n {
			t.Errorf("Round %d: expected %d, got %d", i, n, numbers[i])
		}
	}
}

func TestLatestUsesNumericOrder(t *testing.T) {
	dir := t.TempDir()
	writeRound(t, dir, 2)
	writeRound(t, dir, 9)
	writeRound(t, dir, 10)

	reader, err := NewReader(dir)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}

	// Lexical ordering would pick round 9.
	latest, err := reader.Latest()
	if err != nil {
		t.Fatalf("Failed to resolve latest round: %v", err)
	}
	if latest != 10 {
		t.Errorf("Expected latest round 10, got %d", latest)
	}
}

func TestLatestEmptyDirectory(t *testing.T) {
	reader, err := NewReader(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}

	_, err = reader.Latest()
	if !errors.Is(err, ErrNoRounds) {
		t.Errorf("Expected ErrNoRounds, got: %v", err)
	}
}

func TestLoadRound(t *testing.T) {
	dir := t.TempDir()
	writeRound(t, dir, 7)

	reader, err := NewReader(dir)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}

	st, err := reader.Load(7)
	if err != nil {
		t.Fatalf("Failed to load round 7: %v", err)
	}
	if st.CurrentRound != 7 {
		t.Errorf("Expected currentRound 7, got %d", st.CurrentRound)
	}

	_, err = reader.Load(8)
	if !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("Expected ErrRoundNotFound for round 8, got: %v", err)
	}
}

func TestLoadRoundPropagatesParseFailures(t *testing.T) {
	dir := t.TempDir()
	roundDir := filepath.Join(dir, "4")
	if err := os.MkdirAll(roundDir, 0755); err != nil {
		t.Fatalf("Failed to create round directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(roundDir, "state.json"), []byte("{"), 0644); err != nil {
		t.Fatalf("Failed to write state file: %v", err)
	}

	reader, err := NewReader(dir)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}

	_, err = reader.Load(4)
	if !errors.Is(err, state.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState for a truncated file, got: %v", err)
	}
}

func TestLoadLatest(t *testing.T) {
	dir := t.TempDir()
	writeRound(t, dir, 1)
	writeRound(t, dir, 2)

	reader, err := NewReader(dir)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}

	round, st, err := reader.LoadLatest()
	if err != nil {
		t.Fatalf("Failed to load latest round: %v", err)
	}
	if round != 2 {
		t.Errorf("Expected round 2, got %d", round)
	}
	if st.CurrentRound != 2 {
		t.Errorf("Expected currentRound 2, got %d", st.CurrentRound)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	writeRound(t, dir, 1)

	reader, err := NewReader(dir)
	if err != nil {
		t.Fatalf("Failed to create reader: %v", err)
	}

	if !reader.Exists(1) {
		t.Errorf("Expected round 1 to exist")
	}
	if reader.Exists(2) {
		t.Errorf("Expected round 2 to be absent")
	}
}

func TestStatePath(t *testing.T) {
	reader := &Reader{roundsDir: "rounds"}
	expected := filepath.Join("rounds", "12", "state.json")
	if path := reader.StatePath(12); path != expected {
		t.Errorf("Expected %s, got %s", expected, path)
	}
}
