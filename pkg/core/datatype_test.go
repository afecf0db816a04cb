package core

import "testing"

func TestParseDataType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "INT"},
		{"INT", "INT"},
		{" text ", "TEXT"},
		{"decimal(10,2)", "DECIMAL(10, 2)"},
		{"varchar(255)", "VARCHAR(255)"},
		{"timestamp with time zone", "TIMESTAMP WITH TIME ZONE"},
	}
	for _, tt := range tests {
		dt := ParseDataType(tt.in)
		if dt == nil {
			t.Errorf("ParseDataType(%q) = nil", tt.in)
			continue
		}
		if dt.String() != tt.want {
			t.Errorf("ParseDataType(%q).String() = %q, want %q", tt.in, dt.String(), tt.want)
		}
	}
}

func TestParseDataType_Invalid(t *testing.T) {
	for _, in := range []string{"", "  ", "int(", "int()", "(10)", "int(10,)"} {
		if dt := ParseDataType(in); dt != nil {
			t.Errorf("ParseDataType(%q) = %v, want nil", in, dt)
		}
	}
}

func TestExprName(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{&Ident{Value: "ds"}, "ds"},
		{&Literal{Type: LiteralString, Value: "hello"}, "hello"},
		{&ColumnRef{Table: "t", Column: "c"}, "c"},
		{&TableRef{Schema: "db", Name: "events"}, "db.events"},
		{&KindDef{Name: "FULL"}, "FULL"},
		{&Tuple{}, ""},
	}
	for _, tt := range tests {
		if got := ExprName(tt.expr); got != tt.want {
			t.Errorf("ExprName(%T) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestExprSQL(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{&Ident{Value: "ds"}, "ds"},
		{&Literal{Type: LiteralString, Value: "x"}, "'x'"},
		{&Literal{Type: LiteralNumber, Value: "42"}, "42"},
		{&ColumnRef{Table: "t", Column: "c"}, "t.c"},
		{&TableRef{Catalog: "cat", Schema: "db", Name: "events"}, "cat.db.events"},
	}
	for _, tt := range tests {
		if got := ExprSQL(tt.expr); got != tt.want {
			t.Errorf("ExprSQL(%T) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}
