package adapter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// BaseWSClient handles the lifecycle of a single WebSocket connection:
// the read/write pumps, keepalive pings and a silence watchdog.
type BaseWSClient struct {
	Name string
	URL  string

	conn   *websocket.Conn
	mu     sync.Mutex
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.SugaredLogger

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingInterval time.Duration

	SendChan chan []byte // outgoing raw messages (subscriptions/pings)
	ReadChan chan []byte // incoming raw messages
	ErrChan  chan error  // async errors
}

func NewBaseWSClient(name, url string, log *zap.SugaredLogger) *BaseWSClient {
	return &BaseWSClient{
		Name:         name,
		URL:          url,
		log:          log,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		PingInterval: 20 * time.Second,
		SendChan:     make(chan []byte, 256),
		ReadChan:     make(chan []byte, 1024), // larger buffer for ingress bursts
		ErrChan:      make(chan error, 10),
	}
}

// Connect dials the endpoint and starts the pumps.
func (c *BaseWSClient) Connect(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	if err := c.dial(); err != nil {
		return err
	}

	go c.readPump()
	go c.writePump()
	return nil
}

func (c *BaseWSClient) dial() error {
	c.log.Infow("ws_connecting", "name", c.Name, "url", c.URL)
	conn, _, err := websocket.DefaultDialer.Dial(c.URL, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.log.Infow("ws_connected", "name", c.Name)
	return nil
}

func (c *BaseWSClient) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
	}
}

// writePump dumps messages from SendChan to the websocket
func (c *BaseWSClient) writePump() {
	ticker := time.NewTicker(c.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case <-c.ctx.Done():
			return
		case msg := <-c.SendChan:
			c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.ErrChan <- err
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps messages from the websocket to ReadChan
func (c *BaseWSClient) readPump() {
	lastMsg := time.Now()
	ticker := time.NewTicker(5 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(5 * 1024 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.ReadTimeout))
		return nil
	})

	// silence watchdog: a stalled feed looks connected but prints nothing
	go func() {
		for range ticker.C {
			if time.Since(lastMsg) > 15*time.Second {
				c.log.Warnw("ws_watchdog_stall", "name", c.Name)
				c.conn.Close() // force readPump to exit
				return
			}
		}
	}()

	for {
		select {
		case <-c.done:
			return
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				c.ErrChan <- errors.New("connection closed")
				return
			}
			lastMsg = time.Now()
			c.ReadChan <- message
		}
	}
}
