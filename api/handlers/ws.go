package handlers

import (
	"log"
	"net/http"
	"tattoola/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSFeedHandler - WebSocket endpoint для ленты: feed_posted, feed_deleted и уведомления
func WSFeedHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	services.GlobalWSConnManager.Add(userID, conn)
	defer services.GlobalWSConnManager.Remove(userID, conn)

	if err := services.GlobalWSConnManager.SendJSON(userID, gin.H{"event": "connected", "message": "WebSocket connected"}); err != nil {
		log.Printf("ERROR: WebSocket greeting for user=%s: %v", userID, err)
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ERROR: WebSocket read error: %v", err)
			}
			break
		}
	}
}
