package zeromq

import (
	"github.com/hdmap/viewer/pkg/processing"
)

// MessageRouter accepts inbound messages for processing. *processing.MessageDirector
// implements it.
type MessageRouter interface {
	RouteMessage(msg *processing.Message) error
}

// TopicResolver maps a wire topic to a topic ID. *processing.TopicRegistry
// implements it.
type TopicResolver interface {
	ResolveRosTopic(rosTopic string) (string, bool)
}

// RouterFunc adapts a function to MessageRouter.
type RouterFunc func(msg *processing.Message) error

// RouteMessage calls f.
func (f RouterFunc) RouteMessage(msg *processing.Message) error { return f(msg) }
