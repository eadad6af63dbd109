// Package service provides the inspection logic layer over loaded round
// snapshots.
//
// The service package implements:
//   - Snapshot loading from explicit files and from the rounds directory
//   - Structural validation before a snapshot is adopted
//   - Summaries, cell details and active worm lookups
//   - ASCII map rendering
//
// Core Interfaces:
//
// StateService is the main service interface providing high-level snapshot
// operations, consumed by the HTTP, WebSocket and MCP transports.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the state/rounds packages. It holds exactly one current snapshot at a
// time; loading a new file or round replaces it. Snapshots are validated on
// load, so the accessors the service calls afterwards cannot hit a corrupt
// grid.
//
// Usage:
//
//	roundsReader, _ := rounds.NewReader("rounds")
//	stateService := service.NewStateService(roundsReader)
//
//	// Load the newest round the runner has written
//	info, err := stateService.LoadLatest(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Inspect it
//	summary, err := stateService.Summary(ctx)
//	rows, err := stateService.RenderMap(ctx)
//
// Inspection calls made before any snapshot was loaded fail with ErrNoState.
package service
