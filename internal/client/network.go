// Package client connects to a game server over WebSocket. It is used by
// the remote bot and by the server tests.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"settlers/internal/protocol"
)

// ErrClosed is returned once the connection has gone away.
var ErrClosed = errors.New("connection closed")

// NetworkClient handles WebSocket communication with the server.
type NetworkClient struct {
	conn     *websocket.Conn
	sendChan chan *protocol.Message
	recvChan chan *protocol.Message
	done     chan struct{}
	once     sync.Once
	log      *zap.Logger
}

// WebSocketURL turns a host[:port] or URL into the server's /ws endpoint.
func WebSocketURL(serverAddr string) string {
	switch {
	case strings.HasPrefix(serverAddr, "ws://"), strings.HasPrefix(serverAddr, "wss://"):
		if strings.HasSuffix(serverAddr, "/ws") {
			return serverAddr
		}
		return strings.TrimSuffix(serverAddr, "/") + "/ws"
	case strings.HasPrefix(serverAddr, "http://"):
		return WebSocketURL("ws://" + strings.TrimPrefix(serverAddr, "http://"))
	case strings.HasPrefix(serverAddr, "https://"):
		return WebSocketURL("wss://" + strings.TrimPrefix(serverAddr, "https://"))
	default:
		return "ws://" + strings.TrimSuffix(serverAddr, "/") + "/ws"
	}
}

// Dial connects to the server.
func Dial(ctx context.Context, serverAddr string, log *zap.Logger) (*NetworkClient, error) {
	if log == nil {
		log = zap.NewNop()
	}
	url := WebSocketURL(serverAddr)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(1 << 20)

	c := &NetworkClient{
		conn:     conn,
		sendChan: make(chan *protocol.Message, 64),
		recvChan: make(chan *protocol.Message, 256),
		done:     make(chan struct{}),
		log:      log.Named("client"),
	}
	go c.readPump()
	go c.writePump()
	return c, nil
}

// Close closes the connection.
func (c *NetworkClient) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
	})
}

// Send queues a message to be sent to the server.
func (c *NetworkClient) Send(msg *protocol.Message) error {
	select {
	case c.sendChan <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// SendPayload creates and sends a message. It returns the message ID so
// replies can be matched.
func (c *NetworkClient) SendPayload(msgType protocol.MessageType, payload any) (string, error) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return "", err
	}
	return msg.ID, c.Send(msg)
}

// Next returns the next message from the server.
func (c *NetworkClient) Next(ctx context.Context) (*protocol.Message, error) {
	select {
	case msg, ok := <-c.recvChan:
		if !ok {
			return nil, ErrClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await skips messages until one of the given types arrives.
func (c *NetworkClient) Await(ctx context.Context, types ...protocol.MessageType) (*protocol.Message, error) {
	for {
		msg, err := c.Next(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range types {
			if msg.Type == t {
				return msg, nil
			}
		}
	}
}

// Authenticate claims a seat and waits for the result.
func (c *NetworkClient) Authenticate(ctx context.Context, token string) (*protocol.AuthResultPayload, error) {
	if _, err := c.SendPayload(protocol.TypeAuthenticate, protocol.AuthenticatePayload{Token: token}); err != nil {
		return nil, err
	}
	msg, err := c.Await(ctx, protocol.TypeAuthResult)
	if err != nil {
		return nil, err
	}
	var res protocol.AuthResultPayload
	if err := msg.ParsePayload(&res); err != nil {
		return nil, err
	}
	if !res.Success {
		return &res, fmt.Errorf("authenticate: %s", res.Error)
	}
	return &res, nil
}

// readPump reads messages from the WebSocket.
func (c *NetworkClient) readPump() {
	defer close(c.recvChan)

	for {
		msgType, data, err := c.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				select {
				case <-c.done:
				default:
					c.log.Warn("websocket read failed", zap.Error(err))
				}
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("bad message from server", zap.Error(err))
			continue
		}

		select {
		case c.recvChan <- &msg:
		case <-c.done:
			return
		}
	}
}

// writePump writes messages to the WebSocket.
func (c *NetworkClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.sendChan:
			data, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("marshal message failed", zap.Error(err))
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				c.log.Warn("websocket write failed", zap.Error(err))
				c.Close()
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				c.Close()
				return
			}
		}
	}
}
