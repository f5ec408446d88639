// Package leaderboard answers questions about recorded games by running
// DuckDB SQL over the history parquet files.
package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/brensch/tilesnake/history"
	_ "github.com/duckdb/duckdb-go/v2"
)

// GameSummary is the final state of one recorded game.
type GameSummary struct {
	GameID    string `json:"game_id"`
	Source    string `json:"source"`
	StartedNs int64  `json:"started_ns"`
	Score     int64  `json:"score"`
	Ticks     int64  `json:"ticks"`
	Length    int64  `json:"length"`
	Cause     string `json:"cause"`
}

type Totals struct {
	Games     int64            `json:"games"`
	Turns     int64            `json:"turns"`
	BestScore int64            `json:"best_score"`
	MeanScore float64          `json:"mean_score"`
	Causes    map[string]int64 `json:"causes"`
}

// Board holds an in-memory DuckDB connection with a turns view.
type Board struct {
	roots []string

	mu    sync.RWMutex
	db    *sql.DB
	files int
}

// Open builds the turns view over every parquet file under roots.
func Open(roots []string) (*Board, error) {
	b := &Board{roots: roots}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Refresh rebuilds the view so games written since Open become visible.
func (b *Board) Refresh() error {
	files, err := history.FindFiles(b.roots)
	if err != nil {
		return fmt.Errorf("find parquet files: %w", err)
	}
	db, err := openDuckDB(files)
	if err != nil {
		return err
	}

	b.mu.Lock()
	old := b.db
	b.db = db
	b.files = len(files)
	b.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Files is the number of parquet files behind the current view.
func (b *Board) Files() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.files
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func openDuckDB(files []string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	_, _ = db.Exec("PRAGMA threads=4")

	var sqlText string
	if len(files) == 0 {
		sqlText = `CREATE OR REPLACE VIEW turns AS
			SELECT * FROM (
				SELECT
					NULL::VARCHAR AS game_id,
					NULL::BIGINT AS started_ns,
					NULL::INTEGER AS tick,
					NULL::VARCHAR AS phase,
					NULL::INTEGER AS width,
					NULL::INTEGER AS score,
					NULL::INTEGER AS high,
					NULL::VARCHAR AS heading,
					NULL::VARCHAR AS cause,
					NULL::INTEGER[] AS body_x,
					NULL::INTEGER[] AS body_y,
					NULL::BOOLEAN AS has_food,
					NULL::INTEGER AS food_x,
					NULL::INTEGER AS food_y,
					NULL::VARCHAR AS source,
					NULL::VARCHAR AS filename
			) WHERE 1=0`
	} else {
		quoted := make([]string, len(files))
		for i, f := range files {
			quoted[i] = "'" + escapeSQLString(f) + "'"
		}
		sqlText = `CREATE OR REPLACE VIEW turns AS
			SELECT * FROM read_parquet([` + strings.Join(quoted, ",") + `], filename=true, union_by_name=true)`
	}
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create turns view: %w", err)
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (b *Board) conn() (*sql.DB, func(), error) {
	b.mu.RLock()
	if b.db == nil {
		b.mu.RUnlock()
		return nil, nil, fmt.Errorf("leaderboard closed")
	}
	return b.db, b.mu.RUnlock, nil
}

const gamesCTE = `WITH games AS (
	SELECT
		game_id,
		any_value(source) AS source,
		min(started_ns)::BIGINT AS started_ns,
		max(score)::BIGINT AS score,
		max(tick)::BIGINT AS ticks,
		arg_max(len(body_x), tick)::BIGINT AS length,
		arg_max(cause, tick) AS cause
	FROM turns
	GROUP BY game_id
)`

// TopGames returns the best games by final score. Ties go to the shorter
// game, then to the game id.
func (b *Board) TopGames(ctx context.Context, limit int) ([]GameSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	db, release, err := b.conn()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, gamesCTE+`
		SELECT game_id, COALESCE(source, ''), started_ns, score, ticks, length, COALESCE(cause, '')
		FROM games
		ORDER BY score DESC, ticks ASC, game_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GameSummary, 0, limit)
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.GameID, &g.Source, &g.StartedNs, &g.Score, &g.Ticks, &g.Length, &g.Cause); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Totals aggregates over every recorded game.
func (b *Board) Totals(ctx context.Context) (Totals, error) {
	db, release, err := b.conn()
	if err != nil {
		return Totals{}, err
	}
	defer release()

	t := Totals{Causes: make(map[string]int64)}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&t.Turns); err != nil {
		return Totals{}, err
	}
	if err := db.QueryRowContext(ctx, gamesCTE+`
		SELECT COUNT(*), COALESCE(max(score), 0)::BIGINT, COALESCE(avg(score), 0)::DOUBLE
		FROM games`).Scan(&t.Games, &t.BestScore, &t.MeanScore); err != nil {
		return Totals{}, err
	}

	rows, err := db.QueryContext(ctx, gamesCTE+`
		SELECT COALESCE(cause, ''), COUNT(*) FROM games GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return Totals{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var cause string
		var n int64
		if err := rows.Scan(&cause, &n); err != nil {
			return Totals{}, err
		}
		t.Causes[cause] = n
	}
	return t, rows.Err()
}

// Turns returns the frames of one game in tick order.
func (b *Board) Turns(ctx context.Context, gameID string) ([]history.TurnRow, error) {
	db, release, err := b.conn()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, `
		SELECT game_id, started_ns, tick, phase, width, score, high, heading, cause,
		       body_x, body_y, has_food, food_x, food_y, COALESCE(source, '')
		FROM turns
		WHERE game_id = ?
		ORDER BY tick ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []history.TurnRow
	for rows.Next() {
		var r history.TurnRow
		var bodyX, bodyY any
		if err := rows.Scan(&r.GameID, &r.StartedNs, &r.Tick, &r.Phase, &r.Width, &r.Score, &r.High,
			&r.Heading, &r.Cause, &bodyX, &bodyY, &r.HasFood, &r.FoodX, &r.FoodY, &r.Source); err != nil {
			return nil, err
		}
		r.BodyX = asInt32Slice(bodyX)
		r.BodyY = asInt32Slice(bodyY)
		out = append(out, r)
	}
	return out, rows.Err()
}

func asInt32Slice(v any) []int32 {
	switch vv := v.(type) {
	case nil:
		return nil
	case []int32:
		return vv
	case []int64:
		out := make([]int32, 0, len(vv))
		for _, x := range vv {
			out = append(out, int32(x))
		}
		return out
	case []any:
		out := make([]int32, 0, len(vv))
		for _, x := range vv {
			out = append(out, int32(asInt64(x)))
		}
		return out
	default:
		return nil
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}
