package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/maxringtail/2019-Worms/game/rounds"
	"github.com/maxringtail/2019-Worms/game/service"
	"github.com/maxringtail/2019-Worms/game/state"
	"github.com/maxringtail/2019-Worms/transport/websocket"
)

// MockStateService implements service.StateService for testing
type MockStateService struct {
	// Snapshot loading
	LoadFromFileFunc func(ctx context.Context, path string) (*service.StateInfo, error)
	LoadRoundFunc    func(ctx context.Context, round uint) (*service.StateInfo, error)
	LoadLatestFunc   func(ctx context.Context) (*service.StateInfo, error)

	// Snapshot inspection
	CurrentFunc      func(ctx context.Context) (*service.StateInfo, error)
	GameStateFunc    func(ctx context.Context) (*service.StateDocument, error)
	SummaryFunc      func(ctx context.Context) (*service.StateSummary, error)
	ActiveWormFunc   func(ctx context.Context) (*service.WormInfo, error)
	DescribeCellFunc func(ctx context.Context, x, y uint) (*service.CellInfo, error)
	RenderMapFunc    func(ctx context.Context) ([]string, error)

	// Round discovery
	ListRoundsFunc func(ctx context.Context) ([]uint, error)
}

func (m *MockStateService) LoadFromFile(ctx context.Context, path string) (*service.StateInfo, error) {
	if m.LoadFromFileFunc != nil {
		return m.LoadFromFileFunc(ctx, path)
	}
	return &service.StateInfo{Source: path, LoadedAt: time.Now()}, nil
}

func (m *MockStateService) LoadRound(ctx context.Context, round uint) (*service.StateInfo, error) {
	if m.LoadRoundFunc != nil {
		return m.LoadRoundFunc(ctx, round)
	}
	return &service.StateInfo{Round: round, LoadedAt: time.Now()}, nil
}

func (m *MockStateService) LoadLatest(ctx context.Context) (*service.StateInfo, error) {
	if m.LoadLatestFunc != nil {
		return m.LoadLatestFunc(ctx)
	}
	return &service.StateInfo{LoadedAt: time.Now()}, nil
}

func (m *MockStateService) Current(ctx context.Context) (*service.StateInfo, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return &service.StateInfo{}, nil
}

func (m *MockStateService) GameState(ctx context.Context) (*service.StateDocument, error) {
	if m.GameStateFunc != nil {
		return m.GameStateFunc(ctx)
	}
	return &service.StateDocument{State: &state.State{}}, nil
}

func (m *MockStateService) Summary(ctx context.Context) (*service.StateSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return &service.StateSummary{}, nil
}

func (m *MockStateService) ActiveWorm(ctx context.Context) (*service.WormInfo, error) {
	if m.ActiveWormFunc != nil {
		return m.ActiveWormFunc(ctx)
	}
	return &service.WormInfo{}, nil
}

func (m *MockStateService) DescribeCell(ctx context.Context, x, y uint) (*service.CellInfo, error) {
	if m.DescribeCellFunc != nil {
		return m.DescribeCellFunc(ctx, x, y)
	}
	return &service.CellInfo{X: x, Y: y}, nil
}

func (m *MockStateService) RenderMap(ctx context.Context) ([]string, error) {
	if m.RenderMapFunc != nil {
		return m.RenderMapFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockStateService) ListRounds(ctx context.Context) ([]uint, error) {
	if m.ListRoundsFunc != nil {
		return m.ListRoundsFunc(ctx)
	}
	return []uint{}, nil
}

// Test helpers
func setupTestServer(mockService *MockStateService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Snapshot Loading Tests

func TestLoadState(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockStateService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Load from explicit path",
			requestBody: map[string]interface{}{"path": "rounds/5/state.json"},
			setupMock: func(m *MockStateService) {
				m.LoadFromFileFunc = func(ctx context.Context, path string) (*service.StateInfo, error) {
					if path != "rounds/5/state.json" {
						t.Errorf("Expected path 'rounds/5/state.json', got %s", path)
					}
					return &service.StateInfo{Source: path, Round: 5, MaxRounds: 200, MapSize: 33}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.StateInfo
				parseResponse(t, w, &resp)
				if resp.Round != 5 {
					t.Errorf("Expected round 5, got %d", resp.Round)
				}
			},
		},
		{
			name:        "Load specific round",
			requestBody: map[string]interface{}{"round": 17},
			setupMock: func(m *MockStateService) {
				m.LoadRoundFunc = func(ctx context.Context, round uint) (*service.StateInfo, error) {
					if round != 17 {
						t.Errorf("Expected round 17, got %d", round)
					}
					return &service.StateInfo{Round: round}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.StateInfo
				parseResponse(t, w, &resp)
				if resp.Round != 17 {
					t.Errorf("Expected round 17, got %d", resp.Round)
				}
			},
		},
		{
			name:        "Load latest round",
			requestBody: map[string]interface{}{"latest": true},
			setupMock: func(m *MockStateService) {
				m.LoadLatestFunc = func(ctx context.Context) (*service.StateInfo, error) {
					return &service.StateInfo{Round: 42}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.StateInfo
				parseResponse(t, w, &resp)
				if resp.Round != 42 {
					t.Errorf("Expected round 42, got %d", resp.Round)
				}
			},
		},
		{
			name:           "No selector supplied",
			requestBody:    map[string]interface{}{},
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Round not found",
			requestBody: map[string]interface{}{"round": 999},
			setupMock: func(m *MockStateService) {
				m.LoadRoundFunc = func(ctx context.Context, round uint) (*service.StateInfo, error) {
					return nil, fmt.Errorf("%w: round %d", rounds.ErrRoundNotFound, round)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Malformed state document",
			requestBody: map[string]interface{}{"path": "broken.json"},
			setupMock: func(m *MockStateService) {
				m.LoadFromFileFunc = func(ctx context.Context, path string) (*service.StateInfo, error) {
					return nil, fmt.Errorf("%w: unexpected end of JSON input", state.ErrInvalidState)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockStateService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/state/load", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetState(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockStateService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Get loaded snapshot",
			setupMock: func(m *MockStateService) {
				m.GameStateFunc = func(ctx context.Context) (*service.StateDocument, error) {
					return &service.StateDocument{
						Source: "rounds/3/state.json",
						State:  &state.State{CurrentRound: 3, MapSize: 33},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.StateDocument
				parseResponse(t, w, &resp)
				if resp.State == nil || resp.State.CurrentRound != 3 {
					t.Errorf("Unexpected snapshot in response: %+v", resp.State)
				}
			},
		},
		{
			name: "No snapshot loaded",
			setupMock: func(m *MockStateService) {
				m.GameStateFunc = func(ctx context.Context) (*service.StateDocument, error) {
					return nil, service.ErrNoState
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "no state loaded" {
					t.Errorf("Expected error 'no state loaded', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockStateService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/state", nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetSummary(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockStateService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Summary of loaded snapshot",
			setupMock: func(m *MockStateService) {
				m.SummaryFunc = func(ctx context.Context) (*service.StateSummary, error) {
					return &service.StateSummary{
						Round:   10,
						MapSize: 33,
						Terrain: service.TerrainCounts{Air: 800, Dirt: 200, DeepSpace: 89},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.StateSummary
				parseResponse(t, w, &resp)
				if resp.Terrain.Dirt != 200 {
					t.Errorf("Expected 200 dirt cells, got %d", resp.Terrain.Dirt)
				}
			},
		},
		{
			name: "No snapshot loaded",
			setupMock: func(m *MockStateService) {
				m.SummaryFunc = func(ctx context.Context) (*service.StateSummary, error) {
					return nil, service.ErrNoState
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockStateService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/state/summary", nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestRenderMap(t *testing.T) {
	mockService := &MockStateService{
		RenderMapFunc: func(ctx context.Context) ([]string, error) {
			return []string{" .#", ".E+"}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("GET", "/api/state/render", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string][]string
	parseResponse(t, w, &resp)
	if len(resp["rows"]) != 2 {
		t.Errorf("Expected 2 rendered rows, got %d", len(resp["rows"]))
	}
	if resp["rows"][1] != ".E+" {
		t.Errorf("Unexpected row rendering: %q", resp["rows"][1])
	}
}

func TestGetActiveWorm(t *testing.T) {
	mockService := &MockStateService{
		ActiveWormFunc: func(ctx context.Context) (*service.WormInfo, error) {
			return &service.WormInfo{
				ID:       1,
				PlayerID: 1,
				Health:   100,
				Position: state.Position{X: 24, Y: 29},
				Weapon:   &state.Weapon{Damage: 1, Range: 3},
				Allied:   true,
			}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("GET", "/api/state/active-worm", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.WormInfo
	parseResponse(t, w, &resp)
	if resp.Position.X != 24 || resp.Position.Y != 29 {
		t.Errorf("Expected position (24,29), got (%d,%d)", resp.Position.X, resp.Position.Y)
	}
	if resp.Weapon == nil || resp.Weapon.Range != 3 {
		t.Errorf("Expected weapon range 3, got %+v", resp.Weapon)
	}
}

func TestDescribeCell(t *testing.T) {
	tests := []struct {
		name           string
		vars           map[string]string
		setupMock      func(*MockStateService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "Describe in-bounds cell",
			vars: map[string]string{"x": "2", "y": "1"},
			setupMock: func(m *MockStateService) {
				m.DescribeCellFunc = func(ctx context.Context, x, y uint) (*service.CellInfo, error) {
					if x != 2 || y != 1 {
						t.Errorf("Expected coordinates (2,1), got (%d,%d)", x, y)
					}
					return &service.CellInfo{X: x, Y: y, Type: "AIR", Char: "W", Passable: true}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.CellInfo
				parseResponse(t, w, &resp)
				if resp.Type != "AIR" || !resp.Passable {
					t.Errorf("Unexpected cell info: %+v", resp)
				}
			},
		},
		{
			name: "Out-of-bounds coordinates",
			vars: map[string]string{"x": "99", "y": "99"},
			setupMock: func(m *MockStateService) {
				m.DescribeCellFunc = func(ctx context.Context, x, y uint) (*service.CellInfo, error) {
					return nil, fmt.Errorf("coordinates (%d,%d) are out of bounds, map size is 33x33", x, y)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "No snapshot loaded",
			vars: map[string]string{"x": "0", "y": "0"},
			setupMock: func(m *MockStateService) {
				m.DescribeCellFunc = func(ctx context.Context, x, y uint) (*service.CellInfo, error) {
					return nil, service.ErrNoState
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockStateService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/state/cells/"+tt.vars["x"]+"/"+tt.vars["y"], nil)
			req = mux.SetURLVars(req, tt.vars)

			server.handleDescribeCell(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListRounds(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockStateService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "List available rounds",
			setupMock: func(m *MockStateService) {
				m.ListRoundsFunc = func(ctx context.Context) ([]uint, error) {
					return []uint{0, 1, 2, 5}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 4 {
					t.Errorf("Expected count 4, got %v", resp["count"])
				}
			},
		},
		{
			name: "Empty rounds directory",
			setupMock: func(m *MockStateService) {
				m.ListRoundsFunc = func(ctx context.Context) ([]uint, error) {
					return nil, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 0 {
					t.Errorf("Expected count 0, got %v", resp["count"])
				}
				if resp["rounds"] == nil {
					t.Error("Expected rounds to be an empty array, got null")
				}
			},
		},
		{
			name: "No rounds directory configured",
			setupMock: func(m *MockStateService) {
				m.ListRoundsFunc = func(ctx context.Context) ([]uint, error) {
					return nil, service.ErrNoRoundsDir
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockStateService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/rounds", nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockStateService{})
	w := httptest.NewRecorder()
	req := makeRequest("GET", "/api/health", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", resp["status"])
	}
}
