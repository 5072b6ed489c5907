// Package region keeps the latest "current region" reported by the map server.
package region

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrInvalidSnapshot is returned by DecodeSnapshot for unusable payloads.
var ErrInvalidSnapshot = errors.New("invalid region snapshot")

// Point2 is a planar world position.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is the region the vehicle is in. An empty ID means nothing is known
// yet.
type Snapshot struct {
	ID      string  `json:"id"`
	Point   Point2  `json:"point"`
	Heading float64 `json:"heading"`
}

// Cache holds one Snapshot. Update replaces it wholesale and readers always get
// either the old or the new value, never a mix.
type Cache struct {
	current atomic.Pointer[Snapshot]
	updates atomic.Uint64
}

// NewCache returns a cache holding the empty snapshot.
func NewCache() *Cache {
	c := &Cache{}
	c.current.Store(&Snapshot{})
	return c
}

// Update stores s as the current snapshot.
func (c *Cache) Update(s Snapshot) {
	c.current.Store(&s)
	c.updates.Add(1)
}

// Read returns the current snapshot, empty or not.
func (c *Cache) Read() Snapshot {
	return *c.current.Load()
}

// ReadForDisplay returns the current snapshot and true, or false when the
// stored snapshot has an empty ID.
func (c *Cache) ReadForDisplay() (Snapshot, bool) {
	s := c.current.Load()
	if s.ID == "" {
		return Snapshot{}, false
	}
	return *s, true
}

// Updates returns how many times Update has been called.
func (c *Cache) Updates() uint64 {
	return c.updates.Load()
}

// DecodeSnapshot parses the JSON region message published by the map server.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return s, nil
}
