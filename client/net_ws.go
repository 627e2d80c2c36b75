package client

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// View 推送给外部渲染层的会话视图
type View struct {
	Session string   `json:"session" msgpack:"session"`
	LocalID PlayerID `json:"localId" msgpack:"localId"`
	Joined  bool     `json:"joined" msgpack:"joined"`
	Score   Score    `json:"score" msgpack:"score"`
	Laser   bool     `json:"laserReady" msgpack:"laserReady"`
	Players []Player `json:"players" msgpack:"players"`
}

// View 在锁内生成一份按编号排序的视图
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Session: s.ID,
		LocalID: s.localID,
		Joined:  s.joined,
		Score:   s.score,
		Laser:   s.laser.Available(),
		Players: make([]Player, 0, len(s.players)),
	}
	for _, p := range s.players {
		v.Players = append(v.Players, *p)
	}
	sort.Slice(v.Players, func(i, j int) bool { return v.Players[i].ID < v.Players[j].ID })
	return v
}

// FeedConn 负责把视图写到一个观察者的轻量包装
type FeedConn struct {
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	msgType int
}

func NewFeedConn(ws *websocket.Conn, msgType int) *FeedConn {
	return &FeedConn{
		ws:      ws,
		send:    make(chan []byte, 16),
		done:    make(chan struct{}),
		msgType: msgType,
	}
}

// Enqueue 非阻塞入队，满则丢弃（观察者跟不上时只看最新画面）
func (c *FeedConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *FeedConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(c.msgType, msg); err != nil {
			return
		}
	}
}

// readPump 丢弃观察者发来的消息，只用于感知断开
func (c *FeedConn) readPump() {
	defer close(c.done)
	c.ws.SetReadLimit(1 << 10)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// 只在本机调试端口上提供，允许所有来源
		return true
	},
}

// HandleFeed WebSocket 接入：/ws 或 /ws?codec=msgpack
func HandleFeed(s *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		encode, msgType := encodeJSON, websocket.TextMessage
		if r.URL.Query().Get("codec") == "msgpack" {
			encode, msgType = msgpack.Marshal, websocket.BinaryMessage
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warnw("feed upgrade", "err", err)
			return
		}
		c := NewFeedConn(ws, msgType)
		go c.writePump()
		go c.readPump()
		go s.feedLoop(c, encode)
	}
}

// feedLoop 每个 FeedInterval 推送一次视图，观察者断开后关闭发送队列
func (s *Session) feedLoop(c *FeedConn, encode func(any) ([]byte, error)) {
	ticker := s.clock.Ticker(s.cfg.FeedInterval)
	defer ticker.Stop()
	defer close(c.send)
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			b, err := encode(s.View())
			if err != nil {
				s.log.Errorw("encode view", "err", err)
				return
			}
			c.Enqueue(b)
		}
	}
}

func encodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
