// package sortkit is the value and type layer of an equality saturation engine.
//
// Every datum the engine manipulates is an egval.Value.
// Sorts (package egsort) own the interpretation of Values, and register the
// primitive operations which can be type checked and applied to them.
package sortkit

import (
	"lukechampine.com/blake3"

	"myceliumweb.org/sortkit/internal/cadata"
)

const (
	// MaxAggregateBytes is the default limit on the canonical encoding of a single aggregate.
	MaxAggregateBytes = 1 << 24
	// DefaultCacheSize is the default number of decoded aggregates kept per sort.
	DefaultCacheSize = 256
)

// Hash calculates the hash of x.
// If salt == nil, then the hash is unkeyed.
// If salt != nil, then the hash will be keyed with the salt.
func Hash(salt *cadata.ID, x []byte) (ret cadata.ID) {
	var key []byte
	if salt != nil {
		key = salt[:]
	}
	h := blake3.New(32, key)
	h.Write(x)
	h.Sum(ret[:0])
	return ret
}

// SaltFor returns the salt used to separate the content IDs of different sorts.
func SaltFor(name string) cadata.ID {
	return Hash(nil, []byte(name))
}
