// Package model normalizes declarative model definitions into validated,
// immutable metadata records and derives a canonical execution cadence
// from each record's cron schedule.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/adhocore/gronx"

	"github.com/mkilpat/sqlmesh/pkg/core"
	"github.com/mkilpat/sqlmesh/pkg/date"
)

// ModelMeta is the validated metadata of a model. It is immutable once
// constructed: coercion and validation happen exactly once, in Build, and
// every accessor that returns a collection returns a copy.
type ModelMeta struct {
	name           string
	kind           Kind
	dialect        string
	cron           string
	owner          string
	description    string
	storageFormat  string
	start          date.TimeLike
	batchSize      int
	partitionedBy  []string
	dependsOn      map[string]struct{}
	columnsToTypes map[string]*core.DataType
}

// DefaultCron is the schedule assumed when a definition omits cron.
const DefaultCron = "@daily"

// Field aliases accepted on input, mapped to their canonical field.
var fieldAliases = map[string]string{
	"partitionedBy":  "partitioned_by",
	"dependsOn":      "depends_on",
	"columnsToTypes": "columns",
}

// fieldOrder fixes the coercion pass order. Fields are independent until
// the final cross-field check, so the order only affects which error is
// reported first.
var fieldOrder = []string{
	"name",
	"kind",
	"dialect",
	"owner",
	"description",
	"storage_format",
	"cron",
	"start",
	"batch_size",
	"partitioned_by",
	"depends_on",
	"columns",
}

var fieldCoercers = map[string]func(m *ModelMeta, v any) error{
	"name": func(m *ModelMeta, v any) (err error) {
		m.name, err = coerceString(v)
		return err
	},
	"kind": func(m *ModelMeta, v any) (err error) {
		m.kind, err = ResolveKind(v)
		return err
	},
	"dialect": func(m *ModelMeta, v any) (err error) {
		m.dialect, err = coerceString(v)
		return err
	},
	"owner": func(m *ModelMeta, v any) (err error) {
		m.owner, err = coerceString(v)
		return err
	},
	"description": func(m *ModelMeta, v any) (err error) {
		m.description, err = coerceString(v)
		return err
	},
	"storage_format": func(m *ModelMeta, v any) (err error) {
		m.storageFormat, err = coerceString(v)
		return err
	},
	"cron": func(m *ModelMeta, v any) (err error) {
		m.cron, err = coerceCron(v)
		return err
	},
	"start": func(m *ModelMeta, v any) (err error) {
		m.start, err = coerceStart(v)
		return err
	},
	"batch_size": func(m *ModelMeta, v any) (err error) {
		m.batchSize, err = coerceBatchSize(v)
		return err
	},
	"partitioned_by": func(m *ModelMeta, v any) (err error) {
		m.partitionedBy, err = coerceStringSlice(v)
		return err
	},
	"depends_on": func(m *ModelMeta, v any) (err error) {
		m.dependsOn, err = coerceTableSet(v)
		return err
	},
	"columns": func(m *ModelMeta, v any) (err error) {
		m.columnsToTypes, err = coerceColumns(v)
		return err
	},
}

// Build constructs a ModelMeta from raw definition fields. Values may be
// parsed expression nodes, plain Go values, or already-typed objects;
// each field is coerced independently, the kind is resolved, and the
// cross-field invariants are checked. Construction is all-or-nothing.
func Build(fields map[string]any) (*ModelMeta, error) {
	canonical := make(map[string]any, len(fields))
	for key, v := range fields {
		name := key
		if alias, ok := fieldAliases[key]; ok {
			name = alias
		}
		if _, ok := fieldCoercers[name]; !ok {
			return nil, configErrorf("Unknown model field '%s'", key)
		}
		canonical[name] = v
	}

	m := &ModelMeta{cron: DefaultCron}
	for _, name := range fieldOrder {
		v, ok := canonical[name]
		if !ok || v == nil {
			continue
		}
		if err := fieldCoercers[name](m, v); err != nil {
			return nil, err
		}
	}

	if m.name == "" {
		return nil, configErrorf("Model name is required")
	}
	if m.kind == nil {
		m.kind = IncrementalByTimeRange{}
	}
	if !m.kind.IsMaterialized() && len(m.partitionedBy) > 0 {
		return nil, configErrorf(
			"partitioned_by field cannot be set for %s models", m.kind.Name())
	}
	return m, nil
}

// Name returns the model's identifier.
func (m *ModelMeta) Name() string { return m.name }

// Kind returns the materialization strategy.
func (m *ModelMeta) Kind() Kind { return m.kind }

// Dialect returns the SQL dialect, or "".
func (m *ModelMeta) Dialect() string { return m.dialect }

// Cron returns the model's schedule as given (always a valid expression).
func (m *ModelMeta) Cron() string { return m.cron }

// Owner returns the owning team or person, or "".
func (m *ModelMeta) Owner() string { return m.owner }

// Description returns the human-readable description, or "".
func (m *ModelMeta) Description() string { return m.description }

// StorageFormat returns the storage format, or "".
func (m *ModelMeta) StorageFormat() string { return m.storageFormat }

// Start returns the start of the model's data, in the representation the
// definition used, or nil if unset. The value is always parseable.
func (m *ModelMeta) Start() date.TimeLike { return m.start }

// BatchSize returns the backfill batch size; 0 means unset. A set value
// is always > 0.
func (m *ModelMeta) BatchSize() int { return m.batchSize }

// TimeColumn returns the time column when the kind defines one.
func (m *ModelMeta) TimeColumn() *TimeColumn {
	if k, ok := m.kind.(IncrementalByTimeRange); ok {
		return k.TimeColumn
	}
	return nil
}

// PartitionedBy returns the partition columns: the kind's time column
// first when one exists, then the explicitly declared columns,
// de-duplicated with declaration order preserved.
func (m *ModelMeta) PartitionedBy() []string {
	var cols []string
	if tc := m.TimeColumn(); tc != nil {
		cols = append(cols, tc.Column)
	}
	cols = append(cols, m.partitionedBy...)
	return date.Unique(cols)
}

// DependsOn returns the declared upstream table names, sorted.
func (m *ModelMeta) DependsOn() []string {
	if m.dependsOn == nil {
		return nil
	}
	out := make([]string, 0, len(m.dependsOn))
	for t := range m.dependsOn {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ColumnsToTypes returns the declared column types, or nil.
func (m *ModelMeta) ColumnsToTypes() map[string]*core.DataType {
	if m.columnsToTypes == nil {
		return nil
	}
	out := make(map[string]*core.DataType, len(m.columnsToTypes))
	for k, v := range m.columnsToTypes {
		out[k] = v
	}
	return out
}

// ---------- Field coercion ----------

func coerceString(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if e, ok := v.(core.Expr); ok {
		return core.ExprName(e), nil
	}
	return toString(v), nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func coerceCron(v any) (string, error) {
	cron, err := coerceString(v)
	if err != nil {
		return "", err
	}
	if cron == "" {
		return DefaultCron, nil
	}
	if !gronx.New().IsValid(cron) {
		return "", configErrorf("Invalid cron expression '%s'", cron)
	}
	return cron, nil
}

func coerceStart(v any) (date.TimeLike, error) {
	if e, ok := v.(core.Expr); ok {
		v = core.ExprName(e)
	}
	if _, err := date.ToTime(v); err != nil {
		return nil, configErrorf("'%v' not a valid date time", v)
	}
	return v, nil
}

func coerceBatchSize(v any) (int, error) {
	var n int
	switch t := v.(type) {
	case core.Expr:
		parsed, err := strconv.Atoi(core.ExprName(t))
		if err != nil {
			return 0, configErrorf("Invalid batch size '%s'", core.ExprName(t))
		}
		n = parsed
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(t)
		if err != nil {
			return 0, configErrorf("Invalid batch size '%s'", t)
		}
		n = parsed
	default:
		return 0, configErrorf("Invalid batch size '%v'", v)
	}
	if n <= 0 {
		return 0, configErrorf(
			"Invalid batch size %d. The value should be greater than 0", n)
	}
	return n, nil
}

func coerceStringSlice(v any) ([]string, error) {
	switch t := v.(type) {
	case *core.Tuple:
		return exprNames(t), nil
	case *core.Array:
		return exprNames(t), nil
	case core.Expr:
		return []string{core.ExprName(t)}, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			s, err := coerceString(el)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, configErrorf("Invalid column list '%v'", v)
	}
}

func coerceTableSet(v any) (map[string]struct{}, error) {
	set := map[string]struct{}{}
	add := func(e core.Expr) {
		set[tableName(e)] = struct{}{}
	}

	switch t := v.(type) {
	case *core.Array:
		for _, el := range t.Exprs {
			add(el)
		}
	case *core.Tuple:
		for _, el := range t.Exprs {
			add(el)
		}
	case core.Expr:
		add(t)
	case []string:
		for _, s := range t {
			set[normalizeTableName(s)] = struct{}{}
		}
	case []any:
		for _, el := range t {
			switch e := el.(type) {
			case core.Expr:
				add(e)
			case string:
				set[normalizeTableName(e)] = struct{}{}
			default:
				return nil, configErrorf("Invalid table reference '%v'", el)
			}
		}
	default:
		return nil, configErrorf("Invalid depends_on value '%v'", v)
	}
	return set, nil
}

// tableName resolves an expression element to a table name: string
// literals pass through verbatim, everything else by its SQL text.
func tableName(e core.Expr) string {
	if l, ok := e.(*core.Literal); ok && l.Type == core.LiteralString {
		return normalizeTableName(l.Value)
	}
	return normalizeTableName(core.ExprSQL(e))
}

func normalizeTableName(s string) string {
	return strings.Trim(s, "\"`")
}

func coerceColumns(v any) (map[string]*core.DataType, error) {
	switch t := v.(type) {
	case *core.Schema:
		out := make(map[string]*core.DataType, len(t.Columns))
		for _, col := range t.Columns {
			out[col.Name] = col.Type
		}
		return out, nil
	case map[string]*core.DataType:
		return t, nil
	case map[string]string:
		out := make(map[string]*core.DataType, len(t))
		for name, raw := range t {
			dt := core.ParseDataType(raw)
			if dt == nil {
				return nil, configErrorf("Invalid data type '%s' for column '%s'", raw, name)
			}
			out[name] = dt
		}
		return out, nil
	case map[string]any:
		out := make(map[string]*core.DataType, len(t))
		for name, raw := range t {
			switch dv := raw.(type) {
			case *core.DataType:
				out[name] = dv
			case string:
				dt := core.ParseDataType(dv)
				if dt == nil {
					return nil, configErrorf("Invalid data type '%s' for column '%s'", dv, name)
				}
				out[name] = dt
			default:
				return nil, configErrorf("Invalid data type '%v' for column '%s'", raw, name)
			}
		}
		return out, nil
	default:
		return nil, configErrorf("Invalid columns value '%v'", v)
	}
}
