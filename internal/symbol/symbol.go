// package symbol interns strings into Symbols.
//
// Symbols are small integer ids which are cheap to copy and compare.
// The table is process-wide and ids are never reclaimed.
package symbol

import (
	"cmp"
	"sync"
)

// Symbol is an interned string.
// The zero Symbol is not valid, and is never returned by Intern.
type Symbol uint32

var table = struct {
	mu    sync.RWMutex
	ids   map[string]Symbol
	names []string
}{
	ids:   map[string]Symbol{},
	names: []string{""},
}

// Intern returns the Symbol for s, creating it if necessary.
func Intern(s string) Symbol {
	table.mu.RLock()
	sym, exists := table.ids[s]
	table.mu.RUnlock()
	if exists {
		return sym
	}
	table.mu.Lock()
	defer table.mu.Unlock()
	if sym, exists := table.ids[s]; exists {
		return sym
	}
	sym = Symbol(len(table.names))
	table.names = append(table.names, s)
	table.ids[s] = sym
	return sym
}

// FromID returns the Symbol with id, if it has been interned.
func FromID(id uint32) (Symbol, bool) {
	table.mu.RLock()
	defer table.mu.RUnlock()
	if id == 0 || int(id) >= len(table.names) {
		return 0, false
	}
	return Symbol(id), true
}

func (s Symbol) ID() uint32 {
	return uint32(s)
}

func (s Symbol) IsValid() bool {
	return s != 0
}

func (s Symbol) String() string {
	table.mu.RLock()
	defer table.mu.RUnlock()
	if int(s) >= len(table.names) {
		return "<invalid symbol>"
	}
	return table.names[s]
}

// Compare orders Symbols by id
func Compare(a, b Symbol) int {
	return cmp.Compare(a, b)
}
