package egexpr

import (
	"fmt"
	"io"
	"strings"
)

// Writer is used by the Print functions
type Writer interface {
	io.Writer
	io.StringWriter
}

// PrintString returns x as an s-expression
func PrintString(x Expr) string {
	sb := strings.Builder{}
	if err := Print(&sb, x); err != nil {
		return err.Error()
	}
	return sb.String()
}

func Print(w Writer, x Expr) error {
	switch x := x.(type) {
	case Call:
		if _, err := w.WriteString("("); err != nil {
			return err
		}
		if _, err := w.WriteString(x.Head.String()); err != nil {
			return err
		}
		for _, arg := range x.Args {
			if _, err := w.WriteString(" "); err != nil {
				return err
			}
			if err := Print(w, arg); err != nil {
				return err
			}
		}
		_, err := w.WriteString(")")
		return err

	// Leaves
	case Var, Int, String, Unit:
		_, err := fmt.Fprintf(w, "%v", x)
		return err
	default:
		return fmt.Errorf("egexpr: cannot print %T", x)
	}
}
