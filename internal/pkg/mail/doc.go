// Package mail abstracts outbound email delivery.
//
// The notifier is best-effort: callers decide what a delivery failure means.
// Implementations only report whether the provider accepted the message.
package mail
