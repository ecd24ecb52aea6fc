package client

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// maxSafeID keeps ids within the integer range JavaScript can represent exactly.
const maxSafeID = 1<<53 - 1

// IDGenerator produces candidate entity ids. Callers retry when a candidate collides.
type IDGenerator interface {
	NextID() int64
}

// Clock supplies creation timestamps.
type Clock func() time.Time

// RandomIDs draws ids from the random bits of a version 4 UUID.
type RandomIDs struct{}

// NextID returns a positive id no larger than 2^53-1.
func (RandomIDs) NextID() int64 {
	u := uuid.New()
	id := int64(binary.BigEndian.Uint64(u[:8]) & maxSafeID)
	if id == 0 {
		return 1
	}
	return id
}

// SequentialIDs hands out increasing ids. Used where deterministic ids matter.
type SequentialIDs struct {
	last atomic.Int64
}

// NewSequentialIDs returns a generator whose first id is start+1.
func NewSequentialIDs(start int64) *SequentialIDs {
	g := &SequentialIDs{}
	g.last.Store(start)
	return g
}

// NextID returns the next id in sequence.
func (g *SequentialIDs) NextID() int64 {
	return g.last.Add(1)
}

// SystemClock returns the current UTC time at millisecond precision.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func uniqueID(gen IDGenerator, taken func(int64) bool) int64 {
	for {
		id := gen.NextID()
		if id > 0 && !taken(id) {
			return id
		}
	}
}
