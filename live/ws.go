package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"modesta/models"
	"modesta/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// outboundPayload is what admin clients receive for each order event.
type outboundPayload struct {
	Action    string             `json:"action"`
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId,omitempty"`
	Status    models.OrderStatus `json:"status,omitempty"`
	Total     float64            `json:"total,omitempty"`
	ItemCount int                `json:"itemCount,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

func payloadOf(ev models.BusEvent) outboundPayload {
	return outboundPayload{
		Action:    ev.Type,
		OrderID:   ev.EntityID,
		UserID:    ev.UserID,
		Status:    models.OrderStatus(ev.Status),
		Total:     ev.Total,
		ItemCount: ev.ItemCount,
		Timestamp: ev.At.Unix(),
	}
}

// Forward relays every order event on bus to the orders room.
func Forward(ctx context.Context, bus mq.Bus, hub *Hub) error {
	return bus.Subscribe(ctx, mq.OrderChannel, func(_ context.Context, ev models.BusEvent) {
		data, err := json.Marshal(payloadOf(ev))
		if err != nil {
			log.Printf("live: encode event: %v", err)
			return
		}
		hub.Broadcast(OrdersRoom, data)
	})
}

// WebSocketHandler upgrades the request and streams the orders room.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{Send: make(chan []byte, 256), Room: OrdersRoom}
		if !hub.Register(client) {
			conn.Close()
			return
		}
		go writePump(conn, client)
		go readPump(conn, client, hub)
	}
}

func writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; the feed is one-way.
func readPump(conn *websocket.Conn, c *Client, hub *Hub) {
	defer func() {
		hub.Unregister(c)
		conn.Close()
	}()
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
