package otpcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// DefaultLength is the code length used when NewNumeric receives a
// non-positive value.
const DefaultLength = 6

// ErrLengthTooLarge is returned for lengths that do not fit an int64 code space.
var ErrLengthTooLarge = errors.New("otpcode: length must be at most 18 digits")

// Generator produces one-time passcodes.
type Generator interface {
	// Generate returns a new random code.
	Generate() (string, error)
}

// Numeric generates decimal codes of a fixed length.
type Numeric struct {
	length int
	max    *big.Int
}

// NewNumeric returns a Numeric generator for codes of the given length.
func NewNumeric(length int) (*Numeric, error) {
	if length < 1 {
		length = DefaultLength
	}
	if length > 18 {
		return nil, ErrLengthTooLarge
	}

	max := big.NewInt(10)
	max.Exp(max, big.NewInt(int64(length)), nil)

	return &Numeric{length: length, max: max}, nil
}

// Generate returns a new uniformly random code.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.max)
	if err != nil {
		return "", fmt.Errorf("otpcode: %w", err)
	}

	return fmt.Sprintf("%0*d", n.length, v), nil
}
