package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/brensch/tilesnake/config"
	"github.com/brensch/tilesnake/game"
	"github.com/brensch/tilesnake/leaderboard"
)

func main() {
	dirs := flag.String("dirs", config.EnvOrDefault("SNAKE_HISTORY_DIRS", "data"), "Comma-separated directories of history parquet files")
	limit := flag.Int("limit", 10, "Number of games to list")
	listen := flag.String("listen", config.EnvOrDefault("SNAKE_LEADERBOARD_ADDR", ""), "Serve JSON on this address instead of printing once")
	refresh := flag.Duration("refresh", config.EnvDurationOrDefault("SNAKE_LEADERBOARD_REFRESH", 10*time.Second), "How often the server rescans the directories")
	flag.Parse()

	board, err := leaderboard.Open(strings.Split(*dirs, ","))
	if err != nil {
		log.Fatalf("Failed to open leaderboard: %v", err)
	}
	defer board.Close()

	if *listen == "" {
		if err := printBoard(context.Background(), board, *limit); err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		return
	}

	go func() {
		t := time.NewTicker(*refresh)
		defer t.Stop()
		for range t.C {
			if err := board.Refresh(); err != nil {
				log.Printf("Refresh failed: %v", err)
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/top", func(w http.ResponseWriter, r *http.Request) {
		n := *limit
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			n = v
		}
		games, err := board.TopGames(r.Context(), n)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, games)
	})
	mux.HandleFunc("/api/totals", func(w http.ResponseWriter, r *http.Request) {
		t, err := board.Totals(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, t)
	})
	mux.HandleFunc("/api/games/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/games/")
		turns, err := board.Turns(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(turns) == 0 {
			http.NotFound(w, r)
			return
		}
		frames := make([]game.Frame, len(turns))
		for i, t := range turns {
			frames[i] = t.Frame()
		}
		writeJSON(w, frames)
	})

	log.Printf("Leaderboard listening on %s (%d files)", *listen, board.Files())
	log.Fatal(http.ListenAndServe(*listen, mux))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func printBoard(ctx context.Context, board *leaderboard.Board, limit int) error {
	totals, err := board.Totals(ctx)
	if err != nil {
		return err
	}
	games, err := board.TopGames(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Printf("Games: %d  Turns: %d  Best: %d  Mean: %.1f\n\n", totals.Games, totals.Turns, totals.BestScore, totals.MeanScore)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tLENGTH\tTICKS\tCAUSE\tSOURCE\tSTARTED\tGAME")
	for i, g := range games {
		started := time.Unix(0, g.StartedNs).Format(time.DateTime)
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n", i+1, g.Score, g.Length, g.Ticks, g.Cause, g.Source, started, g.GameID)
	}
	return tw.Flush()
}
