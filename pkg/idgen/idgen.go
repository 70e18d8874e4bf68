package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	// Prefix for all generated IDs.
	Prefix = "tf"
)

// Generate creates a new unique ID in the format "tf-<uuidv7>".
// UUIDv7 values are time-ordered and monotonic within a process, so two
// calls never return the same ID.
func Generate() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return fmt.Sprintf("%s-%s", Prefix, u.String()), nil
}

// MustGenerate creates a new unique ID, panicking on error.
func MustGenerate() string {
	id, err := Generate()
	if err != nil {
		panic(err)
	}
	return id
}

// Valid reports whether id has the shape produced by Generate.
func Valid(id string) bool {
	if len(id) <= len(Prefix)+1 || id[:len(Prefix)+1] != Prefix+"-" {
		return false
	}
	_, err := uuid.Parse(id[len(Prefix)+1:])
	return err == nil
}
