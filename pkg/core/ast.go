package core

// Expr is a marker interface for expression nodes.
//
// Expressions are the raw values carried by a parsed MODEL definition
// block. They are deliberately position-free: the definition parser
// reports errors at the block level, so nodes only need to carry their
// semantic content.
type Expr interface {
	exprNode() // Marker method to distinguish expressions
}

// ExprName returns the textual name of an expression: the identifier
// text, literal value, column name, or head name, depending on the node.
// Nodes without a single textual name (tuples, arrays, schemas) yield "".
func ExprName(e Expr) string {
	switch v := e.(type) {
	case *Ident:
		return v.Value
	case *Literal:
		return v.Value
	case *ColumnRef:
		return v.Column
	case *TableRef:
		return v.SQL()
	case *KindDef:
		return v.Name
	default:
		return ""
	}
}

// ExprSQL renders an expression back to SQL-ish text. It covers only the
// node kinds that appear in definition blocks; unknown nodes render as "".
func ExprSQL(e Expr) string {
	switch v := e.(type) {
	case *Ident:
		return v.Value
	case *Literal:
		if v.Type == LiteralString {
			return "'" + v.Value + "'"
		}
		return v.Value
	case *ColumnRef:
		if v.Table != "" {
			return v.Table + "." + v.Column
		}
		return v.Column
	case *TableRef:
		return v.SQL()
	default:
		return ""
	}
}

// IsStringLiteral reports whether e is a string literal.
func IsStringLiteral(e Expr) bool {
	l, ok := e.(*Literal)
	return ok && l.Type == LiteralString
}
