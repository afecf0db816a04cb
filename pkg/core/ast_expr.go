package core

// ---------- Expression Types ----------

// Ident represents a bare identifier.
type Ident struct {
	Value string
}

func (*Ident) exprNode() {}

// Literal represents a literal value.
type Literal struct {
	Type  LiteralType
	Value string
}

func (*Literal) exprNode() {}

// LiteralType represents the type of a literal.
type LiteralType int

// LiteralType constants for literal value types.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// ColumnRef represents a column reference (possibly qualified).
type ColumnRef struct {
	Table  string // optional table/alias qualifier
	Column string
}

func (*ColumnRef) exprNode() {}

// TableRef represents a (possibly qualified) table reference.
type TableRef struct {
	Catalog string // optional catalog qualifier
	Schema  string // optional schema qualifier
	Name    string
}

func (*TableRef) exprNode() {}

// SQL returns the dotted fully-qualified table name.
func (t *TableRef) SQL() string {
	out := t.Name
	if t.Schema != "" {
		out = t.Schema + "." + out
	}
	if t.Catalog != "" {
		out = t.Catalog + "." + out
	}
	return out
}

// Tuple represents a parenthesized expression list: (a, b, c).
type Tuple struct {
	Exprs []Expr
}

func (*Tuple) exprNode() {}

// Array represents a bracketed expression list: [a, b, c].
type Array struct {
	Exprs []Expr
}

func (*Array) exprNode() {}

// Property is a named value inside a KindDef.
type Property struct {
	Name  string
	Value Expr
}

// KindDef represents a structured kind declaration from a definition
// block: a head name with optional named properties, e.g.
//
//	INCREMENTAL_BY_TIME_RANGE (time_column (ds, '%Y-%m-%d'))
type KindDef struct {
	Name  string
	Props []Property
}

func (*KindDef) exprNode() {}

// Prop returns the value of the named property, or nil.
func (k *KindDef) Prop(name string) Expr {
	for _, p := range k.Props {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// ColumnDef represents a column name/type pair inside a Schema.
type ColumnDef struct {
	Name string
	Type *DataType
}

// Schema represents a column definition list: (id INT, ds TEXT).
type Schema struct {
	Columns []ColumnDef
}

func (*Schema) exprNode() {}
