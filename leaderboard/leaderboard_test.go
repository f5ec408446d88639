package leaderboard

import (
	"context"
	"testing"

	"github.com/brensch/tilesnake/game"
	"github.com/brensch/tilesnake/history"
)

// writeGame stores a game that ends on tick len(scores)-1 with the given
// running scores.
func writeGame(t *testing.T, dir, id string, startedNs int64, scores []int, cause game.Cause) {
	t.Helper()
	rows := make([]history.TurnRow, 0, len(scores))
	for tick, s := range scores {
		f := game.Frame{
			GameID:  id,
			Tick:    tick,
			Phase:   game.Running,
			Width:   20,
			Body:    make([]game.Point, 1+s/10),
			Food:    &game.Point{X: 1, Y: 1},
			Heading: game.Right,
			Score:   s,
		}
		if tick == len(scores)-1 {
			f.Phase = game.GameOver
			f.Cause = cause
		}
		rows = append(rows, history.FrameToRow(f, startedNs, "test"))
	}
	if _, err := history.WriteGameParquetAtomic(dir, rows); err != nil {
		t.Fatal(err)
	}
}

func TestEmptyBoard(t *testing.T) {
	b, err := Open([]string{t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	games, err := b.TopGames(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 0 {
		t.Fatalf("got %d games from empty dir", len(games))
	}
	tot, err := b.Totals(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tot.Games != 0 || tot.Turns != 0 || tot.BestScore != 0 {
		t.Fatalf("unexpected totals %+v", tot)
	}
}

func TestTopGamesAndTotals(t *testing.T) {
	dir := t.TempDir()
	writeGame(t, dir, "aaaaaaaa-1", 1, []int{0, 0, 10, 10}, game.CauseWall)
	writeGame(t, dir, "bbbbbbbb-2", 2, []int{0, 10, 20, 30, 30}, game.CauseSelf)
	writeGame(t, dir, "cccccccc-3", 3, []int{0, 10, 10}, game.CauseWall)

	b, err := Open([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if b.Files() != 3 {
		t.Fatalf("Files() = %d, want 3", b.Files())
	}

	ctx := context.Background()
	games, err := b.TopGames(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	wantOrder := []string{"bbbbbbbb-2", "cccccccc-3", "aaaaaaaa-1"}
	if len(games) != len(wantOrder) {
		t.Fatalf("got %d games, want %d", len(games), len(wantOrder))
	}
	for i, id := range wantOrder {
		if games[i].GameID != id {
			t.Fatalf("games[%d] = %s, want %s (%+v)", i, games[i].GameID, id, games)
		}
	}
	top := games[0]
	if top.Score != 30 || top.Ticks != 4 || top.Length != 4 || top.Cause != "self" || top.Source != "test" || top.StartedNs != 2 {
		t.Fatalf("unexpected top game %+v", top)
	}

	tot, err := b.Totals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tot.Games != 3 || tot.Turns != 12 || tot.BestScore != 30 {
		t.Fatalf("unexpected totals %+v", tot)
	}
	if tot.Causes["wall"] != 2 || tot.Causes["self"] != 1 {
		t.Fatalf("unexpected causes %v", tot.Causes)
	}

	turns, err := b.Turns(ctx, "bbbbbbbb-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 5 || turns[4].Phase != "game_over" || len(turns[4].BodyX) != 4 {
		t.Fatalf("unexpected turns %+v", turns)
	}
}

func TestRefreshSeesNewGames(t *testing.T) {
	dir := t.TempDir()
	b, err := Open([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	writeGame(t, dir, "dddddddd-4", 4, []int{0, 10}, game.CauseWall)
	if err := b.Refresh(); err != nil {
		t.Fatal(err)
	}
	games, err := b.TopGames(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 1 || games[0].Score != 10 {
		t.Fatalf("unexpected games %+v", games)
	}
}
