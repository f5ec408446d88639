package rules

import (
	"math/rand"
	"testing"

	"github.com/brensch/tilesnake/game"
	"github.com/brensch/tilesnake/score"
)

func newTestMachine(t *testing.T, seed int64, kv score.KV) *Machine {
	t.Helper()
	if kv == nil {
		kv = score.NewMemoryKV()
	}
	m, err := NewMachine(Config{
		Grid:  game.Grid{TileCount: 20},
		Start: game.Point{X: 10, Y: 10},
	}, rand.New(rand.NewSource(seed)), score.Load(nil, kv, score.DefaultKey))
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

// place forces a running game with the given body, heading and food.
func place(m *Machine, body []game.Point, heading game.Direction, food *game.Point) {
	m.state.Phase = game.Running
	m.state.Snake = game.Snake{Body: body}
	m.state.Heading = heading
	m.state.Pending = heading
	m.state.Food = food
}

func logFrame(t *testing.T, label string, m *Machine) {
	t.Logf("%s\n%s", label, game.RenderASCII(m.Frame()))
}

func TestNewMachine_RejectsStartOffBoard(t *testing.T) {
	_, err := NewMachine(Config{
		Grid:  game.Grid{TileCount: 20},
		Start: game.Point{X: 20, Y: 3},
	}, rand.New(rand.NewSource(1)), score.Load(nil, score.NewMemoryKV(), ""))
	if err == nil {
		t.Fatalf("NewMachine accepted start outside board")
	}
}

func TestScenario_FirstInputStartsAndMoves(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		m := newTestMachine(t, seed, nil)
		if m.Phase() != game.Idle || m.State().Food != nil {
			t.Fatalf("new machine phase=%s food=%v", m.Phase(), m.State().Food)
		}

		if !m.Command(game.Right) {
			t.Fatalf("Command(Right) rejected in Idle")
		}
		st := m.State()
		if st.Phase != game.Running {
			t.Fatalf("phase=%s want=running", st.Phase)
		}
		if st.Food == nil {
			t.Fatalf("food not spawned on start")
		}
		f := *st.Food
		if f.X < 1 || f.X > 18 || f.Y < 1 || f.Y > 18 || f == (game.Point{X: 10, Y: 10}) {
			t.Fatalf("food=%v outside interior or on snake", f)
		}

		m.Step()
		logFrame(t, "after first tick", m)
		body := m.State().Snake.Body
		if f == (game.Point{X: 11, Y: 10}) {
			want := []game.Point{{X: 11, Y: 10}, {X: 10, Y: 10}}
			if len(body) != 2 || body[0] != want[0] || body[1] != want[1] {
				t.Fatalf("body=%v want=%v (ate)", body, want)
			}
			continue
		}
		want := []game.Point{{X: 11, Y: 10}}
		if len(body) != 1 || body[0] != want[0] {
			t.Fatalf("body=%v want=%v", body, want)
		}
	}
}

func TestScenario_WallCollision(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	food := game.Point{X: 9, Y: 9}
	place(m, []game.Point{{X: 0, Y: 5}, {X: 1, Y: 5}}, game.Left, &food)

	m.Step()
	logFrame(t, "wall", m)
	st := m.State()
	if st.Phase != game.GameOver || st.Cause != game.CauseWall {
		t.Fatalf("phase=%s cause=%s want=game_over/wall", st.Phase, st.Cause)
	}
	if st.Snake.Head() != (game.Point{X: -1, Y: 5}) {
		t.Fatalf("head=%v want=(-1,5)", st.Snake.Head())
	}
}

func TestScenario_SelfCollision(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	food := game.Point{X: 15, Y: 15}
	place(m, []game.Point{{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 6}, {X: 4, Y: 6}, {X: 3, Y: 6}}, game.Left, &food)

	if !m.Command(game.Down) {
		t.Fatalf("Command(Down) rejected while heading left")
	}
	m.Step()
	logFrame(t, "self", m)
	st := m.State()
	if st.Snake.Head() != (game.Point{X: 4, Y: 6}) {
		t.Fatalf("head=%v want=(4,6)", st.Snake.Head())
	}
	if st.Phase != game.GameOver || st.Cause != game.CauseSelf {
		t.Fatalf("phase=%s cause=%s want=game_over/self", st.Phase, st.Cause)
	}
}

func TestStep_MovingIntoVacatedTailIsSafe(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	food := game.Point{X: 15, Y: 15}
	// A 2x2 loop: the head chases the tail, which moves away on the same tick.
	place(m, []game.Point{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}, game.Left, &food)
	m.Command(game.Down)
	m.Step()
	if m.Phase() != game.Running {
		t.Fatalf("phase=%s want=running (tail moved out of the way)", m.Phase())
	}
}

func TestStep_EatingGrowsAndScores(t *testing.T) {
	kv := score.NewMemoryKV()
	m := newTestMachine(t, 3, kv)
	food := game.Point{X: 11, Y: 10}
	place(m, []game.Point{{X: 10, Y: 10}, {X: 9, Y: 10}}, game.Right, &food)

	m.Step()
	st := m.State()
	if st.Snake.Len() != 3 {
		t.Fatalf("len=%d want=3", st.Snake.Len())
	}
	if st.Score != 10 || st.High != 10 {
		t.Fatalf("score=%d high=%d want=10/10", st.Score, st.High)
	}
	if raw, _, _ := kv.Get(score.DefaultKey); raw != "10" {
		t.Fatalf("persisted=%q want=10", raw)
	}
	if st.Food == nil || st.Snake.Occupies(*st.Food) {
		t.Fatalf("new food=%v invalid for body %v", st.Food, st.Snake.Body)
	}

	// A plain move keeps the length.
	st.Food = &game.Point{X: 1, Y: 1}
	m.state.Food = st.Food
	m.Step()
	if got := m.State().Snake.Len(); got != 3 {
		t.Fatalf("len after plain move=%d want=3", got)
	}
}

func TestStep_BoardFullEndsGame(t *testing.T) {
	m, err := NewMachine(Config{
		Grid:  game.Grid{TileCount: 4},
		Start: game.Point{X: 1, Y: 1},
	}, rand.New(rand.NewSource(1)), score.Load(nil, score.NewMemoryKV(), ""))
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	// Interior is the 2x2 block (1..2, 1..2); the head eats the last free tile.
	food := game.Point{X: 1, Y: 2}
	place(m, []game.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}, game.Left, &food)
	m.Command(game.Down)
	m.Step()

	st := m.State()
	if st.Phase != game.GameOver || st.Cause != game.CauseBoardFull {
		t.Fatalf("phase=%s cause=%s want=game_over/board_full", st.Phase, st.Cause)
	}
	if st.Score != DefaultReward || st.Snake.Len() != 4 {
		t.Fatalf("score=%d len=%d", st.Score, st.Snake.Len())
	}
}

func TestStep_NoOpOutsideRunning(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	if m.Step() {
		t.Fatalf("Step moved in Idle")
	}
	if m.State().Snake.Head() != (game.Point{X: 10, Y: 10}) {
		t.Fatalf("snake moved in Idle")
	}

	place(m, []game.Point{{X: 0, Y: 5}}, game.Left, &game.Point{X: 3, Y: 3})
	m.Step()
	before := m.Frame()
	if m.Step() {
		t.Fatalf("Step moved in GameOver")
	}
	after := m.Frame()
	if after.Tick != before.Tick || after.Head() != before.Head() {
		t.Fatalf("frozen state changed: %v -> %v", before, after)
	}
}

func TestCommand_RejectsReversal(t *testing.T) {
	for _, d := range game.Directions {
		m := newTestMachine(t, 1, nil)
		food := game.Point{X: 1, Y: 1}
		place(m, []game.Point{{X: 10, Y: 10}, {X: 10, Y: 11}}, d, &food)

		if m.Command(d.Opposite()) {
			t.Fatalf("Command(%s) accepted while heading %s", d.Opposite(), d)
		}
		if m.State().Pending != d {
			t.Fatalf("pending=%s want=%s", m.State().Pending, d)
		}
	}
}

func TestCommand_ComparesAgainstHeadingNotPending(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	food := game.Point{X: 1, Y: 1}
	place(m, []game.Point{{X: 10, Y: 10}, {X: 9, Y: 10}}, game.Right, &food)

	if !m.Command(game.Up) {
		t.Fatalf("Command(Up) rejected")
	}
	// Left reverses the travel direction even though Up is pending.
	if m.Command(game.Left) {
		t.Fatalf("Command(Left) accepted while still heading right")
	}
	if !m.Command(game.Down) {
		t.Fatalf("Command(Down) rejected")
	}
	if m.State().Pending != game.Down {
		t.Fatalf("pending=%s want=down (latest wins)", m.State().Pending)
	}
	m.Step()
	if m.State().Heading != game.Down {
		t.Fatalf("heading=%s want=down", m.State().Heading)
	}
}

func TestCommand_IgnoresInvalidAndGameOver(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	if m.Command(game.None) || m.Command(game.Direction(42)) {
		t.Fatalf("invalid command accepted")
	}
	if m.Phase() != game.Idle {
		t.Fatalf("invalid command changed phase to %s", m.Phase())
	}

	place(m, []game.Point{{X: 0, Y: 5}}, game.Left, &game.Point{X: 3, Y: 3})
	m.Step()
	if m.Command(game.Up) {
		t.Fatalf("command accepted in GameOver")
	}
}

func TestRestart_ResetsFromEveryPhase(t *testing.T) {
	setups := map[string]func(m *Machine){
		"idle": func(m *Machine) {},
		"running": func(m *Machine) {
			m.Command(game.Up)
			m.Step()
		},
		"game over": func(m *Machine) {
			place(m, []game.Point{{X: 0, Y: 5}, {X: 1, Y: 5}}, game.Left, &game.Point{X: 3, Y: 3})
			m.state.Score = 40
			m.Step()
		},
	}
	for name, setup := range setups {
		m := newTestMachine(t, 1, nil)
		setup(m)
		oldID := m.State().GameID
		m.Restart()

		st := m.State()
		if st.Phase != game.Idle || st.Score != 0 || st.Food != nil {
			t.Fatalf("%s: phase=%s score=%d food=%v", name, st.Phase, st.Score, st.Food)
		}
		if st.Snake.Len() != 1 || st.Snake.Head() != (game.Point{X: 10, Y: 10}) {
			t.Fatalf("%s: body=%v want=[(10,10)]", name, st.Snake.Body)
		}
		if st.Pending != game.None || st.Heading != game.None || st.Cause != game.CauseNone {
			t.Fatalf("%s: pending=%s heading=%s cause=%s", name, st.Pending, st.Heading, st.Cause)
		}
		if st.GameID == oldID {
			t.Fatalf("%s: restart kept game id", name)
		}
	}
}

func TestHighScore_MonotonicAcrossRestarts(t *testing.T) {
	kv := score.NewMemoryKV()
	_ = kv.Set(score.DefaultKey, "20")
	m := newTestMachine(t, 5, kv)
	if m.State().High != 20 {
		t.Fatalf("initial high=%d want=20", m.State().High)
	}

	high := m.State().High
	for round := 0; round < 5; round++ {
		food := game.Point{X: 11, Y: 10}
		place(m, []game.Point{{X: 10, Y: 10}}, game.Right, &food)
		m.state.Score = round * 10
		m.Step()
		if st := m.State(); st.High < high {
			t.Fatalf("round %d: high dropped %d -> %d", round, high, st.High)
		}
		high = m.State().High
		m.Restart()
		if m.State().High != high {
			t.Fatalf("round %d: restart changed high %d -> %d", round, high, m.State().High)
		}
	}
	if high != 50 {
		t.Fatalf("final high=%d want=50", high)
	}
}

func TestStartLoop_OnlyOnce(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	if !m.StartLoop() {
		t.Fatalf("first StartLoop=false")
	}
	m.Restart()
	if m.StartLoop() {
		t.Fatalf("StartLoop=true after restart")
	}
}

func TestObservers_SeeEveryChange(t *testing.T) {
	m := newTestMachine(t, 1, nil)
	var frames []game.Frame
	m.Subscribe(ObserverFunc(func(f game.Frame) { frames = append(frames, f) }))

	m.Command(game.Up)
	m.Step()
	m.Restart()

	if len(frames) != 3 {
		t.Fatalf("frames=%d want=3", len(frames))
	}
	if frames[0].Phase != game.Running || frames[0].Food == nil {
		t.Fatalf("start frame phase=%s food=%v", frames[0].Phase, frames[0].Food)
	}
	if frames[1].Tick != 1 {
		t.Fatalf("tick frame tick=%d want=1", frames[1].Tick)
	}
	if frames[2].Phase != game.Idle {
		t.Fatalf("restart frame phase=%s", frames[2].Phase)
	}
}

// TestInvariants_RandomPlay drives random commands and checks the properties
// that must hold in every reachable state.
func TestInvariants_RandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	m := newTestMachine(t, 99, nil)

	for i := 0; i < 20000; i++ {
		before := m.State()
		switch r := rng.Intn(10); {
		case r < 3:
			m.Command(game.Directions[rng.Intn(4)])
		case r == 3 && before.Phase == game.GameOver:
			m.Restart()
		default:
			ate := before.Phase == game.Running && before.Food != nil &&
				before.Snake.Head().Add(before.Pending) == *before.Food
			m.Step()
			after := m.State()
			if before.Phase == game.Running && after.Cause != game.CauseWall && after.Cause != game.CauseSelf {
				wantLen := before.Snake.Len()
				wantScore := before.Score
				if ate {
					wantLen++
					wantScore += DefaultReward
				}
				if after.Snake.Len() != wantLen || after.Score != wantScore {
					t.Fatalf("step %d: len=%d score=%d want=%d/%d", i, after.Snake.Len(), after.Score, wantLen, wantScore)
				}
			}
		}

		st := m.State()
		if st.Snake.Len() < 1 {
			t.Fatalf("step %d: empty snake", i)
		}
		// Only the head ever enters a new tile, and entering the food tile
		// eats it, so food is never under the body.
		if st.Food != nil && st.Snake.Occupies(*st.Food) {
			t.Fatalf("step %d: food %v under body %v", i, *st.Food, st.Snake.Body)
		}
		outside := !m.Grid().InBounds(st.Snake.Head())
		if (outside || st.Snake.SelfCollision()) != (st.Phase == game.GameOver && st.Cause != game.CauseBoardFull) {
			t.Fatalf("step %d: phase=%s outside=%v self=%v", i, st.Phase, outside, st.Snake.SelfCollision())
		}
	}
}
