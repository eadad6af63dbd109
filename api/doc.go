// Package api provides the HTTP REST surface for inspecting 2019-Worms
// round snapshots.
//
// The api package implements:
//   - RESTful endpoints for loading and inspecting snapshots
//   - Round discovery over the runner's rounds directory
//   - WebSocket upgrade handling for the live state feed
//   - Static file serving
//
// Endpoints:
//
// Snapshot Operations:
//   - GET /api/state - Get the currently loaded snapshot with provenance
//   - POST /api/state/load - Load a snapshot by file path, round number, or latest
//   - GET /api/state/summary - Aggregated facts about the current snapshot
//   - GET /api/state/render - ASCII rendering of the map grid
//   - GET /api/state/active-worm - The worm selected to act this round
//   - GET /api/state/cells/{x}/{y} - Details of a single map cell
//
// Round Discovery:
//   - GET /api/rounds - List round numbers present in the rounds directory
//
// Infrastructure:
//   - GET /api/health - Health check
//   - GET /ws - WebSocket upgrade for the state feed
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Loading is a POST with one of three
// mutually exclusive selectors:
//
//	{"path": "rounds/42/state.json"}  // explicit file
//	{"round": 42}                     // round from the rounds directory
//	{"latest": true}                  // newest round present
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// A missing snapshot or round maps to 404, a malformed state document or
// out-of-range coordinate to 400, everything else to 500.
package api
