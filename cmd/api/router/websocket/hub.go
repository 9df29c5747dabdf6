package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"UniVideo.com/cmd/model"
	"UniVideo.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/websocket"
)

const (
	writeWait     = 5 * time.Second
	sendQueueSize = 16
)

// sender 入队不能阻塞，队列满时返回 false
type sender interface {
	enqueue(msg []byte) bool
}

// wsClient 每个连接一个发送队列，由 writeLoop 串行写出
type wsClient struct {
	conn *websocket.Conn
	out  chan []byte
	done chan struct{}
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		out:  make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

func (cl *wsClient) enqueue(msg []byte) bool {
	select {
	case <-cl.done:
		return false
	default:
	}
	select {
	case cl.out <- msg:
		return true
	default:
		return false
	}
}

// writeLoop 写失败时关闭连接，读循环随之退出并从 Hub 移除
func (cl *wsClient) writeLoop() {
	for {
		select {
		case <-cl.done:
			return
		case msg := <-cl.out:
			err := cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err == nil {
				err = cl.conn.WriteMessage(websocket.TextMessage, msg)
			}
			if err != nil {
				hlog.Warnf("websocket write failed: %v", err)
				cl.conn.Close()
				return
			}
		}
	}
}

func (cl *wsClient) close() {
	close(cl.done)
}

// Hub 在线连接表，只保存连接状态
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[sender]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[sender]struct{})}
}

func (h *Hub) add(userId int64, s sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userId] == nil {
		h.clients[userId] = make(map[sender]struct{})
	}
	h.clients[userId][s] = struct{}{}
}

func (h *Hub) remove(userId int64, s sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userId], s)
	if len(h.clients[userId]) == 0 {
		delete(h.clients, userId)
	}
}

// targets 广播发给所有在线用户
func (h *Hub) targets(r model.Recipient) []sender {
	h.mu.RLock()
	defer h.mu.RUnlock()
	res := make([]sender, 0)
	if uid, ok := r.UserID(); ok {
		for s := range h.clients[uid] {
			res = append(res, s)
		}
		return res
	}
	for _, conns := range h.clients {
		for s := range conns {
			res = append(res, s)
		}
	}
	return res
}

func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleNotificationEvent 只入队不等待写出，队列满的慢连接丢弃本条推送
func (h *Hub) HandleNotificationEvent(ctx context.Context, event *mq.NotificationEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	for _, s := range h.targets(event.Recipient()) {
		if !s.enqueue(msg) {
			hlog.CtxWarnf(ctx, "push notification %d dropped: send queue full", event.NotificationID)
		}
	}
	return nil
}

var _ mq.NotificationEventHandler = (*Hub)(nil)
