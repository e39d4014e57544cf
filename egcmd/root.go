// package egcmd implements a command line tool for inspecting sorts and primitives.
package egcmd

import (
	"fmt"
	"strings"

	"go.brendoncarroll.net/star"

	"myceliumweb.org/sortkit/egexpr"
	"myceliumweb.org/sortkit/egraph"
	"myceliumweb.org/sortkit/egsort"
)

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "sorts and primitives of the rewrite engine",
}, map[star.Symbol]star.Command{
	"sorts":    sortsCmd,
	"prims":    primsCmd,
	"map-demo": mapDemo,
})

var sortsCmd = star.Command{
	Metadata: star.Metadata{
		Short: "list the declared sorts",
	},
	Flags: []star.IParam{DeclParam},
	F: func(c star.Context) error {
		eg, err := newEGraph(c)
		if err != nil {
			return err
		}
		for _, s := range eg.Sorts() {
			c.Printf("%v\n", s)
		}
		return nil
	},
}

var primsCmd = star.Command{
	Metadata: star.Metadata{
		Short: "list the primitives, and how many overloads each has",
	},
	Flags: []star.IParam{DeclParam},
	F: func(c star.Context) error {
		eg, err := newEGraph(c)
		if err != nil {
			return err
		}
		c.Printf("%-16s %s\n", "NAME", "OVERLOADS")
		for _, name := range eg.PrimitiveNames() {
			c.Printf("%-16v %d\n", name, len(eg.Primitives(name)))
		}
		return nil
	},
}

// Decl is a sort declaration given on the command line.
// i.e. M=Map:i64,String
type Decl struct {
	Name string
	Kind string
	Args []egexpr.Expr
}

func ParseDecl(x string) (Decl, error) {
	name, rest, ok := strings.Cut(x, "=")
	if !ok || name == "" {
		return Decl{}, fmt.Errorf("could not parse sort declaration from %q", x)
	}
	kind, argStr, _ := strings.Cut(rest, ":")
	if kind == "" {
		return Decl{}, fmt.Errorf("could not parse sort declaration from %q: missing kind", x)
	}
	var args []egexpr.Expr
	if argStr != "" {
		for _, arg := range strings.Split(argStr, ",") {
			args = append(args, egexpr.NewVar(arg))
		}
	}
	return Decl{Name: name, Kind: kind, Args: args}, nil
}

var DeclParam = star.Param[Decl]{
	Name:     "decl",
	Repeated: true,
	Parse:    ParseDecl,
}

func newEGraph(c star.Context) (*egraph.EGraph, error) {
	eg := egraph.New(c, egraph.DefaultConfig())
	for _, d := range DeclParam.LoadAll(c) {
		if _, err := eg.DeclareSort(c, d.Name, d.Kind, d.Args...); err != nil {
			return nil, err
		}
	}
	return eg, nil
}

// literal returns an expression of the base sort s, which differs for each i.
func literal(s egsort.Sort, i int) (egexpr.Expr, error) {
	switch s {
	case egsort.I64:
		return egexpr.Int(i), nil
	case egsort.String:
		return egexpr.String(fmt.Sprintf("s%d", i)), nil
	default:
		return nil, fmt.Errorf("no literals for sort %v", s.Name())
	}
}
