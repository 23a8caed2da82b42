// Package hash provides helpers for hashing and verifying secrets.
//
// The password-reset flow only ever stores the hash of a credential: hash the
// new plaintext, persist the result, verify later input against it.
// Implementations (like bcrypt) live in this package behind a small interface.
package hash
