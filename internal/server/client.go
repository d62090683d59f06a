package server

import (
	"net/http"
	"time"

	"frontline-server/internal/engine"
	"frontline-server/internal/network"
	"frontline-server/pkg/api"
	"frontline-server/pkg/logger"
	"frontline-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и Runner.
// Команды идут в Runner.Submit, кадры приходят из Broadcaster.
type Client struct {
	ID     string
	Runner *engine.Runner
	Hub    *network.Broadcaster
	Conn   *websocket.Conn
	Send   <-chan api.Frame
	log    *logrus.Entry
}

func NewClient(runner *engine.Runner, hub *network.Broadcaster, conn *websocket.Conn, id string) *Client {
	if id == "" {
		id = utils.NewID("renderer")
	}
	c := &Client{
		ID:     id,
		Runner: runner,
		Hub:    hub,
		Conn:   conn,
		log:    logger.Log.WithField("client", id),
	}
	c.Send = hub.Register(id)
	c.log.Info("Client connected")
	return c
}

// readPump читает команды рендерера
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.ID, c.Send)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS read error")
			}
			return
		}
		if err := c.Runner.Submit(c.ID, cmd); err != nil {
			c.log.WithError(err).WithField("action", cmd.Action).Warn("Command not accepted")
		}
	}
}

// writePump отправляет кадры клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(frame); err != nil {
				c.log.WithError(err).Debug("write frame failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
