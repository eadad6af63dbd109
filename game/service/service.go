package service

import (
	"context"
	"errors"
)

var (
	// ErrNoState indicates no snapshot has been loaded yet
	ErrNoState = errors.New("no state loaded")

	// ErrNoRoundsDir indicates the service was started without a rounds
	// directory, so round-based operations are unavailable
	ErrNoRoundsDir = errors.New("rounds directory not configured")
)

// StateService defines all snapshot inspection operations
type StateService interface {
	// Snapshot loading
	LoadFromFile(ctx context.Context, path string) (*StateInfo, error)
	LoadRound(ctx context.Context, round uint) (*StateInfo, error)
	LoadLatest(ctx context.Context) (*StateInfo, error)

	// Snapshot inspection
	Current(ctx context.Context) (*StateInfo, error)
	GameState(ctx context.Context) (*StateDocument, error)
	Summary(ctx context.Context) (*StateSummary, error)
	ActiveWorm(ctx context.Context) (*WormInfo, error)
	DescribeCell(ctx context.Context, x, y uint) (*CellInfo, error)
	RenderMap(ctx context.Context) ([]string, error)

	// Round discovery
	ListRounds(ctx context.Context) ([]uint, error)
}
