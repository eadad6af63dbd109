package rounds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/maxringtail/2019-Worms/game/state"
)

// stateFileName is the snapshot file the runner writes inside each round
// directory.
const stateFileName = "state.json"

var (
	// ErrNoRounds indicates the rounds directory holds no readable round yet
	ErrNoRounds = errors.New("no rounds found")

	// ErrRoundNotFound indicates a specific round has no state file
	ErrRoundNotFound = errors.New("round not found")
)

// Reader provides read-only access to the round snapshots under a rounds
// directory.
type Reader struct {
	roundsDir string
}

// NewReader creates a reader over an existing rounds directory
func NewReader(roundsDir string) (*Reader, error) {
	info, err := os.Stat(roundsDir)
	if err != nil {
		return nil, fmt.Errorf("rounds directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rounds path %s is not a directory", roundsDir)
	}

	return &Reader{roundsDir: roundsDir}, nil
}

// Dir returns the directory the reader scans
func (r *Reader) Dir() string {
	return r.roundsDir
}

// List returns the available round numbers in ascending order. Entries that
// are not plain-numbered directories with a state file are skipped.
func (r *Reader) List() ([]uint, error) {
	entries, err := os.ReadDir(r.roundsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rounds directory: %w", err)
	}

	var numbers []uint
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := strconv.ParseUint(entry.Name(), 10, 64)
		if err != nil {
			continue
		}
		if !r.Exists(uint(n)) {
			continue
		}
		numbers = append(numbers, uint(n))
	}

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers, nil
}

// Latest returns the highest round number present
func (r *Reader) Latest() (uint, error) {
	numbers, err := r.List()
	if err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 0, ErrNoRounds
	}
	return numbers[len(numbers)-1], nil
}

// Load reads and decodes the snapshot for one round
func (r *Reader) Load(round uint) (*state.State, error) {
	path := r.StatePath(round)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: round %d", ErrRoundNotFound, round)
	}
	return state.LoadState(path)
}

// LoadLatest reads the snapshot of the newest round and returns its number
func (r *Reader) LoadLatest() (uint, *state.State, error) {
	round, err := r.Latest()
	if err != nil {
		return 0, nil, err
	}
	st, err := r.Load(round)
	if err != nil {
		return 0, nil, err
	}
	return round, st, nil
}

// Exists checks whether a round's state file is present
func (r *Reader) Exists(round uint) bool {
	_, err := os.Stat(r.StatePath(round))
	return err == nil
}

// StatePath returns the path of a round's state file
func (r *Reader) StatePath(round uint) string {
	return filepath.Join(r.roundsDir, strconv.FormatUint(uint64(round), 10), stateFileName)
}
