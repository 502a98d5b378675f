package world

import "sync/atomic"

// objectIDCounter generates map object IDs for reactors, mobs and drops.
// Starts high to avoid collision with character IDs in client packets.
var objectIDCounter atomic.Int32

func init() {
	objectIDCounter.Store(1_000_000)
}

// NextObjectID returns a unique object ID for a map object.
func NextObjectID() int32 {
	return objectIDCounter.Add(1)
}
