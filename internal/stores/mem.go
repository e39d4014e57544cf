package stores

import (
	"context"
	"io"
	"slices"

	"go.brendoncarroll.net/state"
	"go.brendoncarroll.net/state/kv"

	"myceliumweb.org/sortkit/internal/cadata"
)

var _ cadata.Store = &Mem{}

// Mem is a content addressed store held entirely in memory.
// Posting the same data twice yields the same ID, and only one copy is kept.
// Blobs are never removed.
type Mem struct {
	hf      cadata.HashFunc
	maxSize int
	blobs   *kv.MemStore[cadata.ID, []byte]
}

func NewMem(hf cadata.HashFunc, maxSize int) *Mem {
	return &Mem{
		hf:      hf,
		maxSize: maxSize,
		blobs: kv.NewMemStore[cadata.ID, []byte](func(a, b cadata.ID) int {
			return a.Compare(b)
		}),
	}
}

// Hash returns the ID that data would be posted under.
func (s *Mem) Hash(salt *cadata.ID, data []byte) cadata.ID {
	return s.hf(salt, data)
}

// Post stores a copy of data, unless the store already holds it.
func (s *Mem) Post(ctx context.Context, salt *cadata.ID, data []byte) (cadata.ID, error) {
	if len(data) > s.maxSize {
		return cadata.ID{}, cadata.ErrTooLarge
	}
	id := s.hf(salt, data)
	exists, err := s.blobs.Exists(ctx, id)
	if err != nil {
		return cadata.ID{}, err
	}
	if exists {
		return id, nil
	}
	if err := s.blobs.Put(ctx, id, slices.Clone(data)); err != nil {
		return cadata.ID{}, err
	}
	return id, nil
}

// Get copies the data for id into buf.
// io.ErrShortBuffer is returned if buf cannot hold all of the data.
func (s *Mem) Get(ctx context.Context, id *cadata.ID, salt *cadata.ID, buf []byte) (int, error) {
	data, err := kv.Get(ctx, s.blobs, *id)
	if err != nil {
		if state.IsErrNotFound[cadata.ID](err) {
			return 0, cadata.ErrNotFound{Key: id}
		}
		return 0, err
	}
	if len(data) > len(buf) {
		return 0, io.ErrShortBuffer
	}
	return copy(buf, data), nil
}

func (s *Mem) Exists(ctx context.Context, id *cadata.ID) (bool, error) {
	return s.blobs.Exists(ctx, *id)
}

// Len returns the number of distinct blobs.
func (s *Mem) Len() int {
	return s.blobs.Len()
}
