package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the selected
// broker.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging is a broker-agnostic client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a destination (topic/subject/queue).
type Publisher interface {
	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a source (topic/subject/subscription).
type Consumer interface {
	// Consume starts consuming messages from the source and blocks until the
	// context is canceled or the broker stops delivering.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// When auto-ack is enabled the wrapper acks on a nil return and nacks on a
// non-nil return, unless the handler already responded itself.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key is used by Kafka for partitioning.
	Key []byte

	// Headers are attached where the broker supports them (NATS, Kafka).
	Headers []Header

	// Attributes are attached where the broker models string attributes
	// (Google Pub/Sub).
	Attributes map[string]string

	// OrderingKey is used by Google Pub/Sub ordered delivery.
	OrderingKey string
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	// MessageID is the broker-assigned message ID, when exposed.
	MessageID string

	// Destination is the topic or subject the message was published to.
	Destination string

	// Timestamp is when the client handed the message to the broker.
	Timestamp time.Time
}

// Message is a broker-agnostic received message.
type Message interface {
	// Body returns the message payload.
	Body() []byte
	// Headers returns message headers, or nil when the broker has none.
	Headers() []Header
	// Attributes returns broker string attributes, or nil.
	Attributes() map[string]string

	// ID returns the broker message ID, or "" when not exposed.
	ID() string
	// Source returns the topic, subject, or subscription the message came from.
	Source() string
	// Timestamp returns the broker or receive timestamp.
	Timestamp() time.Time

	// Ack acknowledges successful processing.
	Ack(ctx context.Context) error
	// Nack requests redelivery. Brokers without a negative ack treat this as
	// a no-op and rely on their own redelivery semantics.
	Nack(ctx context.Context) error
}
