package model

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/mkilpat/sqlmesh/pkg/core"
)

// KindName identifies a materialization strategy.
type KindName string

// The closed set of recognized kind names.
const (
	KindIncrementalByTimeRange KindName = "INCREMENTAL_BY_TIME_RANGE"
	KindIncrementalByUniqueKey KindName = "INCREMENTAL_BY_UNIQUE_KEY"
	KindFull                   KindName = "FULL"
	KindSnapshot               KindName = "SNAPSHOT"
	KindView                   KindName = "VIEW"
	KindEmbedded               KindName = "EMBEDDED"
)

var kindNames = map[KindName]bool{
	KindIncrementalByTimeRange: true,
	KindIncrementalByUniqueKey: true,
	KindFull:                   true,
	KindSnapshot:               true,
	KindView:                   true,
	KindEmbedded:               true,
}

// ParseKindName matches s (case-insensitively) against the closed kind
// enumeration.
func ParseKindName(s string) (KindName, error) {
	name := KindName(strings.ToUpper(strings.TrimSpace(s)))
	if !kindNames[name] {
		return "", configErrorf("Invalid model kind '%s'", s)
	}
	return name, nil
}

// Kind is the materialization strategy of a model.
type Kind interface {
	Name() KindName
	// IsMaterialized reports whether the kind produces persisted output.
	IsMaterialized() bool
}

// BaseKind is a kind carrying only its name. VIEW and EMBEDDED are the
// non-materialized kinds.
type BaseKind struct {
	KindName KindName `mapstructure:"name"`
}

// Name implements Kind.
func (k BaseKind) Name() KindName { return k.KindName }

// IsMaterialized implements Kind.
func (k BaseKind) IsMaterialized() bool {
	return k.KindName != KindView && k.KindName != KindEmbedded
}

// TimeColumn specifies the time column of an incremental-by-time-range
// model, with an optional format for rendering time values into SQL.
type TimeColumn struct {
	Column string `mapstructure:"column"`
	Format string `mapstructure:"format"`
}

// IncrementalByTimeRange is the kind of models whose batches are keyed by
// a time range over a designated column.
type IncrementalByTimeRange struct {
	TimeColumn *TimeColumn `mapstructure:"time_column"`
}

// Name implements Kind.
func (IncrementalByTimeRange) Name() KindName { return KindIncrementalByTimeRange }

// IsMaterialized implements Kind.
func (IncrementalByTimeRange) IsMaterialized() bool { return true }

// IncrementalByUniqueKey is the kind of models whose rows are merged on a
// set of key columns.
type IncrementalByUniqueKey struct {
	UniqueKey []string `mapstructure:"unique_key"`
}

// Name implements Kind.
func (IncrementalByUniqueKey) Name() KindName { return KindIncrementalByUniqueKey }

// IsMaterialized implements Kind.
func (IncrementalByUniqueKey) IsMaterialized() bool { return true }

// ResolveKind normalizes a raw kind description into a typed Kind. Model
// definitions arrive from three surfaces (parsed SQL syntax, config
// mappings, runtime-constructed values); this is the single point where
// the shapes converge, so downstream code never branches on input shape.
//
// Dispatch, in order: an existing Kind is returned unchanged; a
// structured KindDef node and a mapping with a "name" entry dispatch on
// their name to a dedicated variant constructor (only the two incremental
// kinds carry structured fields); any other expression or string is
// matched against the closed name enumeration and yields a BaseKind.
func ResolveKind(v any) (Kind, error) {
	switch k := v.(type) {
	case Kind:
		return k, nil
	case *core.KindDef:
		return kindFromDef(k)
	case map[string]any:
		return kindFromMap(k)
	case core.Expr:
		return kindFromName(core.ExprName(k))
	case KindName:
		return kindFromName(string(k))
	case string:
		return kindFromName(k)
	default:
		return nil, configErrorf("Invalid model kind '%v'", v)
	}
}

func kindFromName(s string) (Kind, error) {
	name, err := ParseKindName(s)
	if err != nil {
		return nil, err
	}
	return BaseKind{KindName: name}, nil
}

func kindFromDef(def *core.KindDef) (Kind, error) {
	name, err := ParseKindName(def.Name)
	if err != nil {
		return nil, err
	}

	switch name {
	case KindIncrementalByTimeRange:
		kind := IncrementalByTimeRange{}
		if prop := def.Prop("time_column"); prop != nil {
			tc, err := timeColumnFromExpr(prop)
			if err != nil {
				return nil, err
			}
			kind.TimeColumn = tc
		}
		return kind, nil
	case KindIncrementalByUniqueKey:
		kind := IncrementalByUniqueKey{}
		if prop := def.Prop("unique_key"); prop != nil {
			kind.UniqueKey = exprNames(prop)
		}
		return kind, nil
	default:
		return BaseKind{KindName: name}, nil
	}
}

func kindFromMap(m map[string]any) (Kind, error) {
	rawName, ok := m["name"]
	if !ok {
		return nil, configErrorf("Invalid model kind '%v': missing name", m)
	}
	name, err := ParseKindName(toString(rawName))
	if err != nil {
		return nil, err
	}

	switch name {
	case KindIncrementalByTimeRange:
		var kind IncrementalByTimeRange
		if err := decodeKind(m, &kind); err != nil {
			return nil, err
		}
		return kind, nil
	case KindIncrementalByUniqueKey:
		var kind IncrementalByUniqueKey
		if err := decodeKind(m, &kind); err != nil {
			return nil, err
		}
		return kind, nil
	default:
		return BaseKind{KindName: name}, nil
	}
}

func decodeKind(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeColumnHook,
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return configErrorf("Invalid model kind properties %v: %s", m, err)
	}
	return nil
}

// timeColumnHook lets a time column be given as a bare column name.
func timeColumnHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to == reflect.TypeOf(TimeColumn{}) && from.Kind() == reflect.String {
		return TimeColumn{Column: data.(string)}, nil
	}
	return data, nil
}

// timeColumnFromExpr builds a TimeColumn from its definition-block forms:
// a bare column expression, or a (column, 'format') tuple.
func timeColumnFromExpr(e core.Expr) (*TimeColumn, error) {
	switch v := e.(type) {
	case *core.Tuple:
		if len(v.Exprs) == 0 || len(v.Exprs) > 2 {
			return nil, configErrorf("Invalid time_column %v", v)
		}
		tc := &TimeColumn{Column: core.ExprName(v.Exprs[0])}
		if len(v.Exprs) == 2 {
			tc.Format = core.ExprName(v.Exprs[1])
		}
		return tc, nil
	default:
		return &TimeColumn{Column: core.ExprName(e)}, nil
	}
}

// exprNames expands a tuple/array into element names, or wraps a single
// expression's name.
func exprNames(e core.Expr) []string {
	switch v := e.(type) {
	case *core.Tuple:
		out := make([]string, 0, len(v.Exprs))
		for _, el := range v.Exprs {
			out = append(out, core.ExprName(el))
		}
		return out
	case *core.Array:
		out := make([]string, 0, len(v.Exprs))
		for _, el := range v.Exprs {
			out = append(out, core.ExprName(el))
		}
		return out
	default:
		return []string{core.ExprName(e)}
	}
}
