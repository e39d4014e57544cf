// package intern implements the deduplicating, append-only tables
// which give aggregate Values their identity.
//
// An aggregate is encoded canonically, and the encoding is posted to a content addressed store.
// The table maps each distinct content ID to the index at which it was first inserted.
// Indexes are never reused or invalidated.
package intern

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"myceliumweb.org/sortkit"
	"myceliumweb.org/sortkit/internal/bitbuf"
	"myceliumweb.org/sortkit/internal/cadata"
	"myceliumweb.org/sortkit/internal/stores"
)

// Aggregate is implemented by values which can be stored in a Table.
// Two aggregates are the same iff their encodings are the same.
type Aggregate[T any] interface {
	// SizeOf returns the size of the encoding in bits.
	SizeOf() int
	Encode(bitbuf.Buf)
	// Clone returns a copy which shares no mutable state with the original.
	Clone() T
}

type DecodeFunc[T any] func(bitbuf.Buf) (T, error)

type Config struct {
	// MaxSize is the maximum size of an encoded aggregate in bytes.
	MaxSize int
	// CacheSize is the number of decoded aggregates to keep.
	// 0 disables the cache.
	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		MaxSize:   sortkit.MaxAggregateBytes,
		CacheSize: sortkit.DefaultCacheSize,
	}
}

type entry struct {
	id   cadata.ID
	size int
}

// Table is safe for concurrent use.
type Table[T Aggregate[T]] struct {
	name   string
	salt   cadata.ID
	decode DecodeFunc[T]
	store  *stores.Mem

	// mu protects everything below.
	// Cached aggregates are only cloned while holding mu.
	mu      sync.Mutex
	entries []entry
	index   map[cadata.ID]uint64
	cache   *simplelru.LRU[uint64, T]
}

// New creates an empty table.
// name is used to salt content IDs, so tables with different names never share entries.
func New[T Aggregate[T]](name string, decode DecodeFunc[T], cfg Config) *Table[T] {
	var cache *simplelru.LRU[uint64, T]
	if cfg.CacheSize > 0 {
		var err error
		if cache, err = simplelru.NewLRU[uint64, T](cfg.CacheSize, nil); err != nil {
			panic(err)
		}
	}
	return &Table[T]{
		name:   name,
		salt:   sortkit.SaltFor(name),
		decode: decode,
		store:  stores.NewMem(sortkit.Hash, cfg.MaxSize),
		cache:  cache,
		index:  make(map[cadata.ID]uint64),
	}
}

// Insert returns the index of x, adding x to the table if no equal aggregate is present.
func (t *Table[T]) Insert(x T) (uint64, error) {
	bb := bitbuf.New(x.SizeOf())
	x.Encode(bb)
	data := bb.Bytes()
	id := t.store.Hash(&t.salt, data)
	t.mu.Lock()
	i, exists := t.index[id]
	t.mu.Unlock()
	if exists {
		return i, nil
	}
	// the store is content addressed, so racing posts of the same data are harmless.
	if _, err := t.store.Post(context.Background(), &t.salt, data); err != nil {
		return 0, fmt.Errorf("interning into %s: %w", t.name, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i, exists := t.index[id]; exists {
		return i, nil
	}
	i = uint64(len(t.entries))
	t.entries = append(t.entries, entry{id: id, size: len(data)})
	t.index[id] = i
	if t.cache != nil {
		t.cache.Add(i, x.Clone())
	}
	return i, nil
}

// Get returns a copy of the aggregate at index i.
// Get panics if i was not returned by Insert on this table.
func (t *Table[T]) Get(i uint64) T {
	t.mu.Lock()
	if t.cache != nil {
		if x, ok := t.cache.Get(i); ok {
			ret := x.Clone()
			t.mu.Unlock()
			return ret
		}
	}
	if i >= uint64(len(t.entries)) {
		n := len(t.entries)
		t.mu.Unlock()
		panic(fmt.Sprintf("intern: index %d out of range for table %s (len=%d)", i, t.name, n))
	}
	ent := t.entries[i]
	t.mu.Unlock()

	buf := make([]byte, ent.size)
	n, err := t.store.Get(context.Background(), &ent.id, &t.salt, buf)
	if err != nil {
		panic(fmt.Sprintf("intern: loading %d from table %s: %v", i, t.name, err))
	}
	if err := cadata.Check(sortkit.Hash, &ent.id, &t.salt, buf[:n]); err != nil {
		panic(fmt.Sprintf("intern: loading %d from table %s: %v", i, t.name, err))
	}
	x, err := t.decode(bitbuf.FromBytes(buf[:n]))
	if err != nil {
		panic(fmt.Sprintf("intern: decoding %d from table %s: %v", i, t.name, err))
	}
	if t.cache != nil {
		t.mu.Lock()
		t.cache.Add(i, x.Clone())
		t.mu.Unlock()
	}
	return x
}

// Len returns the number of distinct aggregates in the table.
// Once concurrent inserts have returned, it is also the number of blobs in the table's store.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Table[T]) Name() string {
	return t.name
}
