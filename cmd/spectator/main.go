package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/brensch/tilesnake/config"
	"github.com/brensch/tilesnake/game"
	"github.com/brensch/tilesnake/spectate"
)

func main() {
	url := flag.String("url", config.EnvOrDefault("SNAKE_SPECTATE_URL", "ws://127.0.0.1:8080/ws"), "Spectator websocket URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := spectate.Dial(ctx, *url)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	for {
		f, err := c.Next()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			log.Fatalf("Stream ended: %v", err)
		}
		// Clear screen and home the cursor before each frame.
		fmt.Print("\033[H\033[2J")
		fmt.Print(game.RenderASCII(f))
		if f.Phase == game.GameOver {
			fmt.Printf("Game Over! Final Score: %d (%s)\n", f.Score, f.Cause)
		}
	}
}
