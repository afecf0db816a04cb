package core

import "strings"

// DataType is a column type descriptor: an upper-cased base name plus
// optional arguments, e.g. DECIMAL(10, 2).
type DataType struct {
	Name string
	Args []string
}

func (*DataType) exprNode() {}

// String renders the descriptor back to SQL type syntax.
func (d *DataType) String() string {
	if len(d.Args) == 0 {
		return d.Name
	}
	return d.Name + "(" + strings.Join(d.Args, ", ") + ")"
}

// ParseDataType parses a textual type descriptor like "int" or
// "decimal(10, 2)" into a DataType. The base name is upper-cased;
// arguments are kept verbatim. Returns nil for empty or malformed input.
func ParseDataType(s string) *DataType {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	open := strings.IndexByte(s, '(')
	if open < 0 {
		return &DataType{Name: strings.ToUpper(s)}
	}
	if !strings.HasSuffix(s, ")") {
		return nil
	}

	name := strings.TrimSpace(s[:open])
	if name == "" {
		return nil
	}

	var args []string
	for _, a := range strings.Split(s[open+1:len(s)-1], ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil
		}
		args = append(args, a)
	}
	return &DataType{Name: strings.ToUpper(name), Args: args}
}
