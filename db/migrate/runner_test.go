package migrate

import (
	"errors"
	"testing"

	gomigrate "github.com/golang-migrate/migrate/v4"
)

func TestRunEmptyDSN(t *testing.T) {
	if err := Run("", "up"); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestRunInvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "Down"} {
		t.Run("direction "+direction, func(t *testing.T) {
			if err := Run("postgres://localhost/novapass", direction); err == nil {
				t.Fatalf("expected error for direction %q", direction)
			}
		})
	}
}

func TestRunUnknownDriverScheme(t *testing.T) {
	if err := Run("bogus://localhost/novapass", "up"); err == nil {
		t.Fatal("expected error for unknown database scheme")
	}
}

func TestErrNoChangeIdentity(t *testing.T) {
	if !errors.Is(ErrNoChange, gomigrate.ErrNoChange) {
		t.Fatal("ErrNoChange must match the upstream sentinel")
	}
}
