package ws_client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"streamvault_agent/internal/metrics"
	"streamvault_agent/internal/models"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20

	defaultMinBackoff = time.Second
	defaultMaxBackoff = 30 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, env models.Envelope) error
}

// WSClient keeps one websocket connection to the StreamVault server open and
// publishes every decoded event to the bus.
type WSClient struct {
	url    string
	token  string
	dialer *websocket.Dialer
	bus    Publisher

	minBackoff time.Duration
	maxBackoff time.Duration

	mu        sync.Mutex
	onConnect []func(ctx context.Context)
	connected bool
}

func NewWSClient(url, token string, bus Publisher) *WSClient {
	return &WSClient{
		url:        url,
		token:      token,
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment},
		bus:        bus,
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
	}
}

func (c *WSClient) WithBackoff(min, max time.Duration) *WSClient {
	c.minBackoff = min
	c.maxBackoff = max
	return c
}

// OnConnect registers fn to run after every successful (re)connect.
// Events sent while disconnected are lost, so stores resync here.
func (c *WSClient) OnConnect(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = append(c.onConnect, fn)
}

func (c *WSClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *WSClient) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Run connects and reconnects with capped exponential backoff until ctx is done.
func (c *WSClient) Run(ctx context.Context) {
	backoff := c.minBackoff

	for {
		established, err := c.session(ctx)
		if ctx.Err() != nil {
			logrus.Info("stoping websocket client")
			return
		}
		if established {
			backoff = c.minBackoff
		}

		logrus.Warnf("websocket disconnected: %v, reconnecting in %s", err, backoff)

		select {
		case <-ctx.Done():
			logrus.Info("stoping websocket client")
			return
		case <-time.After(backoff):
		}

		metrics.WSReconnects.Inc()

		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

func (c *WSClient) session(ctx context.Context) (established bool, err error) {

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.url, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return false, errors.Wrap(err, "DialContext")
	}

	logrus.Infof("websocket connected to %s", c.url)
	c.setConnected(true)
	defer c.setConnected(false)

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-sessionCtx.Done()
		_ = conn.Close()
	}()

	go c.pingLoop(sessionCtx, conn)

	c.mu.Lock()
	hooks := append([]func(ctx context.Context){}, c.onConnect...)
	c.mu.Unlock()
	for _, fn := range hooks {
		go fn(ctx)
	}

	return true, c.readLoop(ctx, conn)
}

func (c *WSClient) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (c *WSClient) readLoop(ctx context.Context, conn *websocket.Conn) error {

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return errors.Wrap(err, "ReadMessage")
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		env, ok := decodeEnvelope(message)
		if !ok {
			continue
		}

		if err := c.bus.Publish(ctx, env); err != nil {
			return errors.Wrap(err, "Publish")
		}
	}
}

func decodeEnvelope(message []byte) (env models.Envelope, ok bool) {
	if err := jsoniter.Unmarshal(message, &env); err != nil {
		logrus.Debugf("skipping malformed websocket message: %v", err)
		return env, false
	}
	if env.Type == "" {
		return env, false
	}
	if env.Data == nil {
		env.Data = map[string]interface{}{}
	}
	env.ReceivedAt = time.Now()

	return env, true
}
