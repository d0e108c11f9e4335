package document

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces unique identifiers for list entities
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUIDs
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequentialGenerator yields "<prefix>1", "<prefix>2", ... and is deterministic for tests
type SequentialGenerator struct {
	Prefix string
	next   atomic.Int64
}

// NewID returns the next id in the sequence.
func (g *SequentialGenerator) NewID() string {
	return g.Prefix + strconv.FormatInt(g.next.Add(1), 10)
}
