// Package history archives finished games as Parquet files, one file per
// game and one row per frame.
package history

import (
	"github.com/brensch/tilesnake/game"
)

// Schema is stored in each file's key/value metadata.
const Schema = "snake_turn_v1"

// TurnRow is one frame of a game.
//
// Body is split into parallel X/Y columns, head first. HasFood is false
// when the frame had no food (a board-full finish).
type TurnRow struct {
	GameID    string `parquet:"game_id,dict"`
	StartedNs int64  `parquet:"started_ns"`
	Tick      int32  `parquet:"tick"`
	Phase     string `parquet:"phase,dict"`
	Width     int32  `parquet:"width"`
	Score     int32  `parquet:"score"`
	High      int32  `parquet:"high"`
	Heading   string `parquet:"heading,dict"`
	Cause     string `parquet:"cause,dict"`

	BodyX []int32 `parquet:"body_x"`
	BodyY []int32 `parquet:"body_y"`

	HasFood bool  `parquet:"has_food"`
	FoodX   int32 `parquet:"food_x"`
	FoodY   int32 `parquet:"food_y"`

	Source string `parquet:"source,dict"`
}

// FrameToRow flattens f.
func FrameToRow(f game.Frame, startedNs int64, source string) TurnRow {
	row := TurnRow{
		GameID:    f.GameID,
		StartedNs: startedNs,
		Tick:      int32(f.Tick),
		Phase:     f.Phase.String(),
		Width:     int32(f.Width),
		Score:     int32(f.Score),
		High:      int32(f.High),
		Heading:   f.Heading.String(),
		Cause:     f.Cause.String(),
		BodyX:     make([]int32, len(f.Body)),
		BodyY:     make([]int32, len(f.Body)),
		Source:    source,
	}
	for i, p := range f.Body {
		row.BodyX[i] = int32(p.X)
		row.BodyY[i] = int32(p.Y)
	}
	if f.Food != nil {
		row.HasFood = true
		row.FoodX = int32(f.Food.X)
		row.FoodY = int32(f.Food.Y)
	}
	return row
}

// Frame rebuilds the frame stored in r.
func (r TurnRow) Frame() game.Frame {
	f := game.Frame{
		GameID: r.GameID,
		Tick:   int(r.Tick),
		Width:  int(r.Width),
		Score:  int(r.Score),
		High:   int(r.High),
		Body:   make([]game.Point, len(r.BodyX)),
	}
	// Unknown labels leave the zero value.
	_ = f.Phase.UnmarshalText([]byte(r.Phase))
	_ = f.Heading.UnmarshalText([]byte(r.Heading))
	_ = f.Cause.UnmarshalText([]byte(r.Cause))
	for i := range r.BodyX {
		f.Body[i] = game.Point{X: int(r.BodyX[i]), Y: int(r.BodyY[i])}
	}
	if r.HasFood {
		f.Food = &game.Point{X: int(r.FoodX), Y: int(r.FoodY)}
	}
	return f
}
