package services

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsConn - соединение со своим мьютексом: gorilla не разрешает параллельную запись
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type WSConnManager struct {
	mu    sync.RWMutex
	users map[uuid.UUID][]*wsConn
}

func NewWSConnManager() *WSConnManager {
	return &WSConnManager{
		users: make(map[uuid.UUID][]*wsConn),
	}
}

func (m *WSConnManager) Add(userID uuid.UUID, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = append(m.users[userID], &wsConn{conn: conn})
}

func (m *WSConnManager) Remove(userID uuid.UUID, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns := m.users[userID]
	for i, c := range conns {
		if c.conn == conn {
			m.users[userID] = append(conns[:i:i], conns[i+1:]...)
			break
		}
	}
	if len(m.users[userID]) == 0 {
		delete(m.users, userID)
	}
}

func (m *WSConnManager) Connected(userID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users[userID])
}

func (m *WSConnManager) Send(userID uuid.UUID, message []byte) {
	m.mu.RLock()
	conns := append([]*wsConn(nil), m.users[userID]...)
	m.mu.RUnlock()
	for _, c := range conns {
		c.mu.Lock()
		_ = c.conn.WriteMessage(websocket.TextMessage, message)
		c.mu.Unlock()
	}
}

func (m *WSConnManager) SendJSON(userID uuid.UUID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.Send(userID, data)
	return nil
}

var GlobalWSConnManager = NewWSConnManager()
