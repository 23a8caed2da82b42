// Package messaging provides a broker-agnostic API for publishing and
// consuming messages.
//
// Business code depends only on the interfaces here, so the underlying broker
// (NATS, NSQ, Kafka, Google Pub/Sub) can be swapped through configuration
// without touching use-case code.
package messaging
