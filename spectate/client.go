package spectate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brensch/tilesnake/game"
	"github.com/gorilla/websocket"
)

// Client reads frames from a spectator endpoint.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a ws:// URL such as ws://127.0.0.1:8080/ws.
func Dial(ctx context.Context, url string) (*Client, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Next blocks until the next frame arrives or the connection closes.
func (c *Client) Next() (game.Frame, error) {
	var f game.Frame
	if err := c.conn.ReadJSON(&f); err != nil {
		return game.Frame{}, err
	}
	return f, nil
}

func (c *Client) Close() error {
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}
