package egsort

import (
	"fmt"

	"myceliumweb.org/sortkit/internal/intern"
)

// Store interns x in table, and returns a Value with tag which refers to it.
// Equal aggregates always produce equal Values.
func Store[T intern.Aggregate[T]](table *intern.Table[T], tag Symbol, x T) Value {
	i, err := table.Insert(x)
	if err != nil {
		panic(fmt.Sprintf("storing aggregate of sort %v: %v", tag, err))
	}
	return Value{Tag: tag, Bits: i}
}

// Load returns a copy of the aggregate which v refers to.
// v must have been produced by Store on the same table.
func Load[T intern.Aggregate[T]](table *intern.Table[T], tag Symbol, v Value) T {
	if v.Tag != tag {
		panic(fmt.Sprintf("loading %v as sort %v", v, tag))
	}
	return table.Get(v.Bits)
}
