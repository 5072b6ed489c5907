package zeromq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pebbe/zmq4"

	customlog "github.com/hdmap/viewer/pkg/log"
)

// MapClient talks to the map server over a REQ socket. A REQ socket that
// missed a reply cannot be reused, so the client reconnects after every
// timeout or cancellation.
type MapClient struct {
	ctx     *zmq4.Context
	address string
	timeout time.Duration
	logger  customlog.Logger

	mu     sync.Mutex
	socket *zmq4.Socket
	closed bool
}

// NewMapClient connects a REQ socket to address. timeout bounds each request.
func NewMapClient(ctx *zmq4.Context, address string, timeout time.Duration, logger customlog.Logger) (*MapClient, error) {
	c := &MapClient{
		ctx:     ctx,
		address: address,
		timeout: timeout,
		logger:  logger.WithField("component", "map_client"),
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	c.logger.Infof("MapClient connected to %s", address)
	return c, nil
}

func (c *MapClient) connect() error {
	socket, err := c.ctx.NewSocket(zmq4.REQ)
	if err != nil {
		return fmt.Errorf("failed to create REQ socket: %w", err)
	}
	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return fmt.Errorf("failed to set linger option: %w", err)
	}
	if err := socket.Connect(c.address); err != nil {
		socket.Close()
		return fmt.Errorf("failed to connect to %s: %w", c.address, err)
	}
	c.socket = socket
	return nil
}

func (c *MapClient) reset() {
	if c.socket != nil {
		c.socket.Close()
		c.socket = nil
	}
	if err := c.connect(); err != nil {
		c.logger.Errorf("Reconnecting to %s: %v", c.address, err)
	}
}

// request sends payload and waits for the reply, at most timeout or until ctx
// is done.
func (c *MapClient) request(ctx context.Context, payload []byte, timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrServiceClosed
	}
	if c.socket == nil {
		if err := c.connect(); err != nil {
			return nil, err
		}
	}

	if _, err := c.socket.SendBytes(payload, 0); err != nil {
		c.reset()
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	poller := zmq4.NewPoller()
	poller.Add(c.socket, zmq4.POLLIN)
	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.Err(); err != nil {
			c.reset()
			return nil, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.reset()
			return nil, fmt.Errorf("%w after %v", ErrRequestTimeout, timeout)
		}

		sockets, err := poller.Poll(min(remaining, pollInterval))
		if err != nil {
			c.reset()
			return nil, fmt.Errorf("failed to poll socket: %w", err)
		}
		if len(sockets) == 0 {
			continue
		}

		reply, err := c.socket.RecvBytes(0)
		if err != nil {
			c.reset()
			return nil, fmt.Errorf("failed to receive reply: %w", err)
		}
		return reply, nil
	}
}

// Ping checks that the map server answers within timeout.
func (c *MapClient) Ping(ctx context.Context, timeout time.Duration) error {
	req, _ := json.Marshal(NewZeroMQMessage(MsgTypePing, nil))
	reply, err := c.request(ctx, req, timeout)
	if err != nil {
		return err
	}
	msg, err := checkReply(reply)
	if err != nil {
		return err
	}
	if msg == nil || msg.Type != MsgTypePong {
		return fmt.Errorf("%w: expected %s", ErrInvalidMessage, MsgTypePong)
	}
	return nil
}

// WaitForService pings the map server every interval until it answers or ctx
// is done.
func (c *MapClient) WaitForService(ctx context.Context, interval time.Duration) error {
	for attempt := 1; ; attempt++ {
		err := c.Ping(ctx, interval)
		if err == nil {
			c.logger.Infof("Map service available at %s", c.address)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Infof("Map service not available (attempt %d): %v, waiting again...", attempt, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RequestGlobalMap asks for the whole map and returns the FlatBuffers buffer.
func (c *MapClient) RequestGlobalMap(ctx context.Context) ([]byte, error) {
	req, _ := json.Marshal(NewZeroMQMessage(MsgTypeGetGlobalMap, nil))
	reply, err := c.request(ctx, req, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("global map request: %w", err)
	}
	if _, err := checkReply(reply); err != nil {
		return nil, fmt.Errorf("global map request: %w", err)
	}
	return reply, nil
}

// Close closes the socket. The context is owned by the caller.
func (c *MapClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.socket != nil {
		c.socket.Close()
		c.socket = nil
	}
}

// RemoteError is an ERROR reply from the server.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

// checkReply decodes a JSON envelope if reply is one. Binary replies yield a
// nil message and no error.
func checkReply(reply []byte) (*ZeroMQMessage, error) {
	if !json.Valid(reply) {
		return nil, nil
	}
	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(reply, &env); err != nil {
		return nil, nil
	}
	if env.Type == MsgTypeError {
		var e ErrorResponse
		_ = json.Unmarshal(env.Data, &e)
		return nil, &RemoteError{Code: e.Code, Message: e.Message}
	}
	return &ZeroMQMessage{Type: env.Type}, nil
}
