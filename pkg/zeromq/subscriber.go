package zeromq

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pebbe/zmq4"

	customlog "github.com/hdmap/viewer/pkg/log"
	"github.com/hdmap/viewer/pkg/processing"
)

// Subscriber receives topic-framed messages on a SUB socket and routes them by
// topic ID.
type Subscriber struct {
	socket   *zmq4.Socket
	address  string
	router   MessageRouter
	resolver TopicResolver
	logger   customlog.Logger

	running  atomic.Bool
	wg       sync.WaitGroup
	received atomic.Uint64
	dropped  atomic.Uint64
}

// NewSubscriber connects a SUB socket to address and subscribes to each wire
// topic in topics.
func NewSubscriber(ctx *zmq4.Context, address string, topics []string, router MessageRouter, resolver TopicResolver, logger customlog.Logger) (*Subscriber, error) {
	socket, err := ctx.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create SUB socket: %w", err)
	}
	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}
	for _, topic := range topics {
		if err := socket.SetSubscribe(topic); err != nil {
			socket.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}
	if err := socket.Connect(address); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	logger.Infof("Subscriber connected to %s for topics %v", address, topics)
	return &Subscriber{
		socket:   socket,
		address:  address,
		router:   router,
		resolver: resolver,
		logger:   logger.WithField("component", "subscriber"),
	}, nil
}

// Start runs the receive loop on its own goroutine. The loop owns the socket
// and closes it on exit.
func (s *Subscriber) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.receiveLoop()
}

// Stop ends the receive loop and waits for it.
func (s *Subscriber) Stop() {
	s.running.Store(false)
	s.wg.Wait()
}

// Stats returns the number of received and dropped messages.
func (s *Subscriber) Stats() (received, dropped uint64) {
	return s.received.Load(), s.dropped.Load()
}

func (s *Subscriber) receiveLoop() {
	defer s.wg.Done()
	defer s.socket.Close()

	poller := zmq4.NewPoller()
	poller.Add(s.socket, zmq4.POLLIN)

	for s.running.Load() {
		sockets, err := poller.Poll(pollInterval)
		if err != nil {
			s.logger.Errorf("Error polling socket: %v", err)
			continue
		}
		if len(sockets) == 0 {
			continue
		}

		frames, err := s.socket.RecvMessageBytes(0)
		if err != nil {
			s.logger.Errorf("Error receiving message: %v", err)
			continue
		}
		s.handleFrames(frames)
	}
	s.logger.Infof("Subscriber on %s stopped", s.address)
}

// handleFrames expects a topic frame followed by a payload frame.
func (s *Subscriber) handleFrames(frames [][]byte) {
	s.received.Add(1)
	if len(frames) != 2 {
		s.dropped.Add(1)
		s.logger.Warnf("Dropping message with %d frames, expected topic and payload", len(frames))
		return
	}

	wireTopic := string(frames[0])
	topicID, ok := s.resolver.ResolveRosTopic(wireTopic)
	if !ok {
		s.dropped.Add(1)
		s.logger.Warnf("Dropping message on unmapped topic '%s'", wireTopic)
		return
	}

	if err := s.router.RouteMessage(processing.NewMessage(topicID, frames[1])); err != nil {
		s.dropped.Add(1)
		s.logger.Warnf("Failed to route message for topic '%s': %v", topicID, err)
	}
}
