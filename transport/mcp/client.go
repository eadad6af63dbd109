package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/maxringtail/2019-Worms/game/service"
	"github.com/maxringtail/2019-Worms/game/state"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"2019 Worms State Inspector",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`2019 Worms State Inspector - MCP Interface

This is a thin client that proxies all requests to the REST API server.

PURPOSE:
Inspect the round snapshots a 2019 Worms match runner writes to disk. The
runner materializes each round as rounds/<round>/state.json; the inspector
loads one snapshot at a time and answers questions about it.

AVAILABLE TOOLS:
- load_state: Load a snapshot by file path, round number, or latest round
- game_state: Get the currently loaded snapshot with a map rendering
- state_summary: Players, terrain histogram, powerups, active worm
- active_worm: The worm selected to act in the current round
- describe_cell: Detailed info about one map cell (terrain, occupier, powerup)
- list_rounds: Round numbers available in the rounds directory
- render_map: ASCII rendering of the full map grid
- state_format: Reference documentation for the snapshot wire format

NOTE: Load a snapshot first - every inspection tool answers about the most
recently loaded one.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Snapshot loading
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_state",
		Description: "Load a round snapshot. Provide exactly one of: path (explicit state file), round (number in the rounds directory), or latest (newest round present).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to a state.json file",
				},
				"round": map[string]interface{}{
					"type":        "integer",
					"description": "Round number to load from the rounds directory",
				},
				"latest": map[string]interface{}{
					"type":        "boolean",
					"description": "Load the newest round the runner has written",
				},
			},
		},
	}, c.handleLoadState)

	// Snapshot inspection
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the currently loaded snapshot: round header, players, and an ASCII rendering of the map",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "state_summary",
		Description: "Get an aggregated summary of the current snapshot: player digests, terrain histogram, powerup locations, and the active worm",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleStateSummary)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "active_worm",
		Description: "Get the worm selected to act in the current round, with full stats including its weapon",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleActiveWorm)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific cell in the map grid: terrain type, whether it is passable or diggable, and any occupying worm or powerup.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"x", "y"},
		},
	}, c.handleDescribeCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_map",
		Description: "Render the full map grid as ASCII art. Legend: '.' air, '#' dirt, ' ' deep space, 'W' allied worm, 'E' enemy worm, '+' health pack.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRenderMap)

	// Round discovery
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rounds",
		Description: "List the round numbers available in the rounds directory",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRounds)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "state_format",
		Description: "Get reference documentation for the snapshot wire format the match runner writes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleStateFormat)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleLoadState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	body := map[string]interface{}{}
	if path, ok := args["path"].(string); ok && path != "" {
		body["path"] = path
	} else if round, ok := args["round"].(float64); ok {
		body["round"] = uint(round)
	} else if latest, ok := args["latest"].(bool); ok && latest {
		body["latest"] = true
	} else {
		return mcp.NewToolResultError("provide one of: path, round, latest"), nil
	}

	var info service.StateInfo
	err := c.apiCall("POST", "/api/state/load", body, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Loaded snapshot from %s\n\n%s", info.Source, formatStateInfo(&info))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var doc service.StateDocument
	err := c.apiCall("GET", "/api/state", nil, &doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatStateDocument(&doc)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStateSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var summary service.StateSummary
	err := c.apiCall("GET", "/api/state/summary", nil, &summary)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSummary(&summary)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleActiveWorm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var worm service.WormInfo
	err := c.apiCall("GET", "/api/state/active-worm", nil, &worm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Active worm:\n" + formatWormInfo(&worm)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	xRaw, xOK := args["x"].(float64)
	yRaw, yOK := args["y"].(float64)
	if !xOK || !yOK || xRaw < 0 || yRaw < 0 {
		return mcp.NewToolResultError("x and y must be non-negative integers"), nil
	}
	x := int(xRaw)
	y := int(yRaw)

	var cell service.CellInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/state/cells/%d/%d", x, y), nil, &cell)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatCellInfo(&cell)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRenderMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Rows []string `json:"rows"`
	}
	err := c.apiCall("GET", "/api/state/render", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Map (. air, # dirt, space deep space, W allied worm, E enemy worm, + health pack):\n\n"
	result += strings.Join(response.Rows, "\n")
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRounds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int    `json:"count"`
		Rounds []uint `json:"rounds"`
	}

	err := c.apiCall("GET", "/api/rounds", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No rounds found in the rounds directory."), nil
	}

	result := fmt.Sprintf("Available rounds (%d):\n\n", response.Count)
	for _, round := range response.Rounds {
		result += fmt.Sprintf("- round %d\n", round)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStateFormat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := `2019 Worms - Round Snapshot Wire Format

Each round, the match runner writes rounds/<roundNumber>/state.json, a
single UTF-8 JSON document describing the full game state from the
controlling player's point of view.

TOP LEVEL:
{
  "currentRound": uint,              // round being played
  "maxRounds": uint,                 // round limit for the match
  "mapSize": uint,                   // square map side length
  "currentWormId": uint,             // id of the worm selected to act
  "consecutiveDoNothingCount": uint, // no-op turns in a row
  "myPlayer": Player,
  "opponents": [Opponent],
  "map": [[Cell]]                    // outer index y (rows), inner index x
}

PLAYER (the controlled side, full detail):
{ "id": uint, "score": uint, "health": uint, "worms": [PlayerWorm] }

PlayerWorm: { "id", "health", "diggingRange", "movementRange": uint,
              "position": {"x", "y": uint},
              "weapon": {"damage", "range": uint} }

OPPONENT (reduced visibility - the runner hides opponent weapon stats):
{ "id": uint, "score": uint, "worms": [OpponentWorm] }

OpponentWorm: like PlayerWorm but with no "weapon" field.

CELL:
{ "x": uint, "y": uint,
  "type": "AIR" | "DIRT" | "DEEP_SPACE",   // closed set, anything else fails
  "occupier": CellWorm,                     // optional, absent when empty
  "powerup": {"type": "HEALTH_PACK", "value": uint} } // optional

OCCUPIER DISCRIMINATION:
The "occupier" object carries no discriminator tag. A payload that includes
"weapon" is one of the controlling player's worms; one without belongs to an
opponent. The decoder therefore tries the weapon-bearing shape first and
falls back to the weaponless one. Occupiers also carry "playerId".

INVARIANTS (checked on load by the inspector, not by the decoder):
- map is mapSize rows of mapSize cells, each cell carrying its own (x,y)
- every worm position lies inside the map
- currentWormId matches one of myPlayer.worms
- currentRound <= maxRounds

ERROR MODEL:
A snapshot either parses completely or the load fails - missing required
fields, unknown enum tokens, and occupiers matching neither shape are all
rejected. There is no partial state.`

	return mcp.NewToolResultText(format), nil
}

// Formatting helpers

func formatStateInfo(info *service.StateInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Round: %d/%d | Map: %dx%d | Active worm id: %d\n",
		info.Round, info.MaxRounds, info.MapSize, info.MapSize, info.ActiveWormID))
	b.WriteString(fmt.Sprintf("My player: %s\n", formatPlayerDigest(&info.MyPlayer)))
	for i := range info.Opponents {
		b.WriteString(fmt.Sprintf("Opponent:  %s\n", formatPlayerDigest(&info.Opponents[i])))
	}
	return b.String()
}

func formatPlayerDigest(d *service.PlayerDigest) string {
	if d.Health > 0 {
		return fmt.Sprintf("id %d, score %d, health %d, worms %d (%d alive)",
			d.ID, d.Score, d.Health, d.WormCount, d.AliveWorms)
	}
	return fmt.Sprintf("id %d, score %d, worms %d (%d alive)",
		d.ID, d.Score, d.WormCount, d.AliveWorms)
}

func formatStateDocument(doc *service.StateDocument) string {
	if doc == nil || doc.State == nil {
		return "No snapshot loaded"
	}
	st := doc.State

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Source: %s (loaded %s)\n", doc.Source, doc.LoadedAt.Format("15:04:05")))
	b.WriteString(fmt.Sprintf("Round %d/%d | Map %dx%d | Active worm id %d | Do-nothing streak %d\n\n",
		st.CurrentRound, st.MaxRounds, st.MapSize, st.MapSize,
		st.CurrentWormID, st.ConsecutiveDoNothingCount))

	b.WriteString(fmt.Sprintf("My player: id %d, score %d, health %d, %d worms\n",
		st.MyPlayer.ID, st.MyPlayer.Score, st.MyPlayer.Health, len(st.MyPlayer.Worms)))
	for i := range st.Opponents {
		o := &st.Opponents[i]
		b.WriteString(fmt.Sprintf("Opponent:  id %d, score %d, %d worms\n", o.ID, o.Score, len(o.Worms)))
	}

	// Grid
	b.WriteString("\n")
	for y := range st.Map {
		for x := range st.Map[y] {
			b.WriteString(cellChar(&st.Map[y][x]))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatSummary(summary *service.StateSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Round %d/%d | Map %dx%d | Do-nothing streak %d\n\n",
		summary.Round, summary.MaxRounds, summary.MapSize, summary.MapSize, summary.DoNothingCount))

	b.WriteString("Active worm:\n")
	b.WriteString(formatWormInfo(&summary.ActiveWorm))

	b.WriteString(fmt.Sprintf("\nMy player: %s\n", formatPlayerDigest(&summary.MyPlayer)))
	for i := range summary.Opponents {
		b.WriteString(fmt.Sprintf("Opponent:  %s\n", formatPlayerDigest(&summary.Opponents[i])))
	}

	b.WriteString(fmt.Sprintf("\nTerrain: %d air, %d dirt, %d deep space\n",
		summary.Terrain.Air, summary.Terrain.Dirt, summary.Terrain.DeepSpace))

	if len(summary.Powerups) > 0 {
		b.WriteString("Powerups:\n")
		for _, p := range summary.Powerups {
			b.WriteString(fmt.Sprintf("- %s worth %d at (%d,%d)\n", p.Type, p.Value, p.Position.X, p.Position.Y))
		}
	} else {
		b.WriteString("Powerups: none\n")
	}

	if summary.NearestEnemyDistance > 0 {
		b.WriteString(fmt.Sprintf("Nearest enemy worm: %d cells from the active worm\n", summary.NearestEnemyDistance))
	}

	return b.String()
}

func formatWormInfo(worm *service.WormInfo) string {
	side := "opponent"
	if worm.Allied {
		side = "allied"
	}
	result := fmt.Sprintf("- id %d (player %d, %s) at (%d,%d), health %d, dig range %d, move range %d\n",
		worm.ID, worm.PlayerID, side, worm.Position.X, worm.Position.Y,
		worm.Health, worm.DiggingRange, worm.MovementRange)
	if worm.Weapon != nil {
		result += fmt.Sprintf("  weapon: damage %d, range %d\n", worm.Weapon.Damage, worm.Weapon.Range)
	}
	return result
}

func formatCellInfo(cell *service.CellInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Cell (%d,%d):\n", cell.X, cell.Y))
	b.WriteString(fmt.Sprintf("Terrain: %s (rendered as %q)\n", cell.Type, cell.Char))
	b.WriteString(fmt.Sprintf("Passable: %v | Diggable: %v\n", cell.Passable, cell.Diggable))

	if cell.Occupier != nil {
		b.WriteString("Occupier:\n")
		b.WriteString(formatWormInfo(cell.Occupier))
	} else {
		b.WriteString("Occupier: none\n")
	}

	if cell.Powerup != nil {
		b.WriteString(fmt.Sprintf("Powerup: %s worth %d\n", cell.Powerup.Type, cell.Powerup.Value))
	} else {
		b.WriteString("Powerup: none\n")
	}

	return b.String()
}

// cellChar mirrors the service's map rendering so game_state can show the
// grid without a second API round trip.
func cellChar(cell *state.Cell) string {
	if cell.Occupier != nil {
		if cell.Occupier.Allied() {
			return "W"
		}
		return "E"
	}
	if cell.Powerup != nil {
		return "+"
	}
	switch cell.Type {
	case state.Air:
		return "."
	case state.Dirt:
		return "#"
	case state.DeepSpace:
		return " "
	default:
		return "?"
	}
}
