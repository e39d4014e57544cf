// package egval defines Value, the universal currency of the engine.
//
// A Value is a type tag and a 64 bit payload.
// The Sort named by the tag owns the interpretation of the payload.
// Scalar sorts store the scalar directly in the payload.
// Aggregate sorts store an index into their interning table.
package egval

import (
	"cmp"
	"fmt"
	"strconv"

	"myceliumweb.org/sortkit/internal/bitbuf"
	"myceliumweb.org/sortkit/internal/symbol"
)

type (
	Symbol = symbol.Symbol
	BitBuf = bitbuf.Buf
)

// Intern returns the Symbol for s.
func Intern(s string) Symbol {
	return symbol.Intern(s)
}

// ValueBits is the size of an encoded Value.
const ValueBits = 32 + 64

var (
	UnitTag   = Intern("Unit")
	I64Tag    = Intern("i64")
	StringTag = Intern("String")

	fakeTag = Intern("__bogus__")
)

// ID identifies an e-class, or a row in one of the engine's tables.
type ID uint64

// Value is a tagged 64 bit token.
// Values are comparable, and can be used as map keys.
type Value struct {
	Tag  Symbol
	Bits uint64
}

// Unit is the result of operations which produce nothing.
func Unit() Value {
	return Value{Tag: UnitTag, Bits: 0}
}

// Fake returns a placeholder Value.  It does not denote any data.
func Fake() Value {
	return Value{Tag: fakeTag, Bits: 1234567890}
}

// FromID returns a Value for the e-class id, which has the sort named by tag.
func FromID(tag Symbol, id ID) Value {
	return Value{Tag: tag, Bits: uint64(id)}
}

func FromI64(x int64) Value {
	return Value{Tag: I64Tag, Bits: uint64(x)}
}

func FromSymbol(s Symbol) Value {
	return Value{Tag: StringTag, Bits: uint64(s.ID())}
}

func (v Value) IsFake() bool {
	return v == Fake()
}

func (v Value) IsUnit() bool {
	return v == Unit()
}

// AsI64 reinterprets the payload as a signed integer.
func (v Value) AsI64() int64 {
	return int64(v.Bits)
}

// AsSymbol returns the Symbol in the payload, and false if there is no such Symbol.
func (v Value) AsSymbol() (Symbol, bool) {
	if v.Bits > uint64(^uint32(0)) {
		return 0, false
	}
	return symbol.FromID(uint32(v.Bits))
}

func (v Value) String() string {
	switch v.Tag {
	case I64Tag:
		return "i64:" + strconv.FormatInt(v.AsI64(), 10)
	case StringTag:
		if sym, ok := v.AsSymbol(); ok {
			return "String:" + strconv.Quote(sym.String())
		}
	case UnitTag:
		return "Unit"
	}
	return fmt.Sprintf("%v:%d", v.Tag, v.Bits)
}

// Compare orders Values by tag, then by payload.
func Compare(a, b Value) int {
	if c := symbol.Compare(a.Tag, b.Tag); c != 0 {
		return c
	}
	return cmp.Compare(a.Bits, b.Bits)
}

func Less(a, b Value) bool {
	return Compare(a, b) < 0
}

func Equal(a, b Value) bool {
	return a == b
}

// Encode writes v to the first ValueBits of bb
func (v Value) Encode(bb BitBuf) {
	bb.Put32(0, v.Tag.ID())
	bb.Put64(32, v.Bits)
}

// Decode reads a Value from the first ValueBits of bb
func Decode(bb BitBuf) (Value, error) {
	if bb.Len() < ValueBits {
		return Value{}, fmt.Errorf("egval: buffer too short for Value. len=%d", bb.Len())
	}
	tagID := bb.Get32(0)
	tag, ok := symbol.FromID(tagID)
	if !ok {
		return Value{}, fmt.Errorf("egval: unknown tag id %d", tagID)
	}
	return Value{Tag: tag, Bits: bb.Get64(32)}, nil
}

// EncodeSeq writes xs one after the other.  bb must have len(xs) * ValueBits bits.
func EncodeSeq(bb BitBuf, xs ...Value) {
	for i, x := range xs {
		x.Encode(bb.Slice(i*ValueBits, (i+1)*ValueBits))
	}
}

// DecodeSeq reads Values written by EncodeSeq.
func DecodeSeq(bb BitBuf) ([]Value, error) {
	if bb.Len()%ValueBits != 0 {
		return nil, fmt.Errorf("egval: buffer length %d is not a multiple of %d", bb.Len(), ValueBits)
	}
	n := bb.Len() / ValueBits
	ret := make([]Value, n)
	for i := range ret {
		v, err := Decode(bb.Slice(i*ValueBits, (i+1)*ValueBits))
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}
