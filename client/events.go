package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tattoola/models"
)

// FeedEvent - сообщение из ws/feed. Уведомления приходят с пустым Event и заполненным NotifyType
type FeedEvent struct {
	Event      string           `json:"event"`
	PostID     uuid.UUID        `json:"post_id"`
	Post       *models.FeedPost `json:"post,omitempty"`
	NotifyType string           `json:"notify_type,omitempty"`
	Message    string           `json:"message,omitempty"`
}

func (c *Client) wsURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/ws/feed")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

// WatchFeed слушает события ленты до отмены ctx или разрыва соединения
func (c *Client) WatchFeed(ctx context.Context, handle func(FeedEvent)) error {
	wsURL, err := c.wsURL()
	if err != nil {
		return err
	}
	header := http.Header{}
	if token := c.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect to feed (%d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("failed to connect to feed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return ctx.Err()
			}
			return err
		}
		var event FeedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("ERROR: bad feed event %q: %v", strings.TrimSpace(string(data)), err)
			continue
		}
		handle(event)
	}
}
