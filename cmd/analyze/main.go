// Command analyze prints quick, human-readable heuristics about round
// snapshot files the match runner writes. It summarizes players, terrain,
// and powerups, renders the map grid, lists available rounds, and checks
// snapshots against the state invariants.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/maxringtail/2019-Worms/game/rounds"
	"github.com/maxringtail/2019-Worms/game/state"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the analyze command tree.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Inspect 2019 Worms round snapshot files",
		Commands: []*cli.Command{
			{
				Name:      "summary",
				Usage:     "Summarize one or more snapshot files",
				ArgsUsage: "<state.json> [state.json ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					paths := cmd.Args().Slice()
					if len(paths) == 0 {
						return fmt.Errorf("summary: at least one snapshot file required")
					}

					for _, path := range paths {
						fmt.Printf("\n=== Analyzing %s ===\n", path)
						st, err := state.LoadState(path)
						if err != nil {
							fmt.Printf("Error loading snapshot: %v\n", err)
							continue
						}
						fmt.Print(summarizeSnapshot(st))
					}
					return nil
				},
			},
			{
				Name:      "render",
				Usage:     "Render a snapshot's map grid as ASCII art",
				ArgsUsage: "<state.json>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("render: exactly one snapshot file required")
					}

					st, err := state.LoadState(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("render: %w", err)
					}
					fmt.Print(renderSnapshot(st))
					return nil
				},
			},
			{
				Name:  "rounds",
				Usage: "List the rounds available in a rounds directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: "rounds",
						Usage: "Rounds directory the match runner writes to",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					reader, err := rounds.NewReader(cmd.String("dir"))
					if err != nil {
						return fmt.Errorf("rounds: %w", err)
					}

					report, err := roundsReport(reader)
					if err != nil {
						return fmt.Errorf("rounds: %w", err)
					}
					fmt.Print(report)
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "Check snapshot files against the state invariants",
				ArgsUsage: "<state.json> [state.json ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					paths := cmd.Args().Slice()
					if len(paths) == 0 {
						return fmt.Errorf("check: at least one snapshot file required")
					}

					failed := 0
					for _, path := range paths {
						if err := checkSnapshot(path); err != nil {
							fmt.Printf("❌ %s: %v\n", path, err)
							failed++
						} else {
							fmt.Printf("✅ %s\n", path)
						}
					}

					if failed > 0 {
						return cli.Exit(fmt.Sprintf("%d of %d snapshots failed", failed, len(paths)), 1)
					}
					return nil
				},
			},
		},
	}
}

// summarizeSnapshot builds the human-readable report for one snapshot.
func summarizeSnapshot(st *state.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Round: %d / %d\n", st.CurrentRound, st.MaxRounds)
	fmt.Fprintf(&b, "Map Size: %d x %d\n", st.MapSize, st.MapSize)
	fmt.Fprintf(&b, "Do-nothing streak: %d\n", st.ConsecutiveDoNothingCount)

	fmt.Fprintf(&b, "My Player: id %d, score %d, health %d, %d worms (%d alive)\n",
		st.MyPlayer.ID, st.MyPlayer.Score, st.MyPlayer.Health,
		len(st.MyPlayer.Worms), alivePlayerWorms(st))
	for i := range st.Opponents {
		o := &st.Opponents[i]
		alive := 0
		for j := range o.Worms {
			if o.Worms[j].Health > 0 {
				alive++
			}
		}
		fmt.Fprintf(&b, "Opponent: id %d, score %d, %d worms (%d alive)\n",
			o.ID, o.Score, len(o.Worms), alive)
	}

	fmt.Fprintf(&b, "Terrain: %d air, %d dirt, %d deep space\n",
		state.CountCellType(st.Map, state.Air),
		state.CountCellType(st.Map, state.Dirt),
		state.CountCellType(st.Map, state.DeepSpace))

	active := st.ActiveWorm()
	fmt.Fprintf(&b, "Active Worm: id %d at (%d,%d), health %d, weapon damage %d range %d\n",
		active.ID, active.Position.X, active.Position.Y, active.Health,
		active.Weapon.Damage, active.Weapon.Range)

	powerups := state.PowerupCells(st.Map)
	fmt.Fprintf(&b, "Powerups on map: %d\n", len(powerups))
	for _, cell := range powerups {
		dist := state.ManhattanDistance(active.Position, state.Position{X: cell.X, Y: cell.Y})
		fmt.Fprintf(&b, "  %s worth %d at (%d,%d), %d cells from active worm\n",
			cell.Powerup.Type, cell.Powerup.Value, cell.X, cell.Y, dist)
	}

	if pos, dist, found := state.FindNearestOpponentWorm(st, active.Position); found {
		fmt.Fprintf(&b, "Nearest enemy worm: at (%d,%d), %d cells away\n",
			pos.X, pos.Y, dist)
		if dist <= active.Weapon.Range {
			fmt.Fprintf(&b, "⚠️  Enemy within weapon range (%d)!\n", active.Weapon.Range)
		}
	}

	if st.ConsecutiveDoNothingCount >= 3 {
		fmt.Fprintf(&b, "⚠️  WARNING: %d do-nothing turns in a row\n", st.ConsecutiveDoNothingCount)
	}

	return b.String()
}

// renderSnapshot renders the grid with the standard legend.
func renderSnapshot(st *state.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round %d/%d, map %dx%d\n", st.CurrentRound, st.MaxRounds, st.MapSize, st.MapSize)
	b.WriteString("Legend: '.' air, '#' dirt, ' ' deep space, 'W' allied worm, 'E' enemy worm, '+' powerup\n\n")

	for y := range st.Map {
		for x := range st.Map[y] {
			b.WriteString(cellChar(&st.Map[y][x]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// roundsReport lists rounds and flags gaps in the sequence.
func roundsReport(reader *rounds.Reader) (string, error) {
	list, err := reader.List()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(list) == 0 {
		fmt.Fprintf(&b, "No rounds in %s\n", reader.Dir())
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Rounds in %s: %d (rounds %d through %d)\n",
		reader.Dir(), len(list), list[0], list[len(list)-1])
	for _, round := range list {
		fmt.Fprintf(&b, "  round %d: %s\n", round, reader.StatePath(round))
	}

	// A gap usually means the runner crashed or files were pruned
	expected := list[len(list)-1] - list[0] + 1
	if uint(len(list)) != expected {
		fmt.Fprintf(&b, "⚠️  WARNING: %d rounds missing from the sequence\n", expected-uint(len(list)))
	}

	return b.String(), nil
}

// checkSnapshot loads a snapshot and verifies the state invariants.
func checkSnapshot(path string) error {
	st, err := state.LoadState(path)
	if err != nil {
		return err
	}
	return state.ValidateState(st)
}

func alivePlayerWorms(st *state.State) int {
	alive := 0
	for i := range st.MyPlayer.Worms {
		if st.MyPlayer.Worms[i].Health > 0 {
			alive++
		}
	}
	return alive
}

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
