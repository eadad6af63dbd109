package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Error sentinels separate unreadable sources from malformed documents so
// callers can tell infrastructure failures apart from schema violations.
var (
	// ErrStateUnreadable indicates the state file could not be read
	ErrStateUnreadable = errors.New("state file unreadable")

	// ErrInvalidState indicates the document does not match the snapshot schema
	ErrInvalidState = errors.New("invalid state document")
)

// LoadState reads and decodes the snapshot the match runner wrote for a
// round. Read failures wrap ErrStateUnreadable and decode failures wrap
// ErrInvalidState; the snapshot is never silently defaulted.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateUnreadable, err)
	}
	return ParseState(data)
}

// ParseState decodes a snapshot document. Missing required fields, unknown
// enum tokens and occupiers matching neither worm shape all fail with
// ErrInvalidState.
func ParseState(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return &s, nil
}
