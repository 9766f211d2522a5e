package landmarks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/drivewatch/go-drivewatch/internal/log"
)

// Client talks to a landmark-detection sidecar over websocket.
// Each request is a binary JPEG frame; each response is a JSON
// Observation payload. Requests are serialized: one frame in flight.
type Client struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn

	// DialTimeout bounds connection attempts.
	DialTimeout time.Duration

	// ResponseTimeout bounds how long to wait for the sidecar's answer.
	ResponseTimeout time.Duration
}

// NewClient creates a client for the given sidecar websocket URL.
func NewClient(url string) *Client {
	return &Client{
		url:             url,
		DialTimeout:     5 * time.Second,
		ResponseTimeout: 2 * time.Second,
	}
}

// Connect establishes the websocket session.
// Detect will also connect lazily, so calling Connect is optional.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.DialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial landmark sidecar %s: %w", c.url, err)
	}
	c.conn = conn
	log.Info("landmark sidecar connected", "url", c.url)
	return nil
}

// Detect sends a JPEG frame to the sidecar and returns its observation,
// stamped with the local receive time. On transport failure the session
// is torn down and one reconnect is attempted before giving up.
func (c *Client) Detect(ctx context.Context, jpeg []byte) (Observation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	obs, err := c.detectLocked(ctx, jpeg)
	if err == nil {
		return obs, nil
	}

	// One reconnect attempt; a dropped frame is tolerable, a dead
	// session is not.
	c.closeLocked()
	if rerr := c.connectLocked(ctx); rerr != nil {
		return Observation{}, err
	}
	return c.detectLocked(ctx, jpeg)
}

func (c *Client) detectLocked(ctx context.Context, jpeg []byte) (Observation, error) {
	if err := c.connectLocked(ctx); err != nil {
		return Observation{}, err
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, jpeg); err != nil {
		return Observation{}, fmt.Errorf("send frame: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.ResponseTimeout))
	var obs Observation
	if err := c.conn.ReadJSON(&obs); err != nil {
		return Observation{}, fmt.Errorf("read observation: %w", err)
	}

	obs.Timestamp = time.Now()
	return obs, nil
}

// Close tears down the websocket session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return nil
}

func (c *Client) closeLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
