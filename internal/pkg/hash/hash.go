package hash

// Hash turns plaintext secrets into opaque hashed values and verifies them.
type Hash interface {
	// Hash takes a plaintext string and returns its hashed representation.
	Hash(plaintext string) ([]byte, error)

	// Verify returns true when plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
