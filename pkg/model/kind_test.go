package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkilpat/sqlmesh/pkg/core"
)

func TestResolveKind_Passthrough(t *testing.T) {
	in := IncrementalByTimeRange{TimeColumn: &TimeColumn{Column: "ds"}}
	out, err := ResolveKind(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResolveKind_FromKindDef(t *testing.T) {
	def := &core.KindDef{
		Name: "INCREMENTAL_BY_TIME_RANGE",
		Props: []core.Property{
			{Name: "time_column", Value: &core.Tuple{Exprs: []core.Expr{
				&core.Ident{Value: "ds"},
				&core.Literal{Type: core.LiteralString, Value: "%Y-%m-%d"},
			}}},
		},
	}

	out, err := ResolveKind(def)
	require.NoError(t, err)

	kind, ok := out.(IncrementalByTimeRange)
	require.True(t, ok)
	require.NotNil(t, kind.TimeColumn)
	assert.Equal(t, "ds", kind.TimeColumn.Column)
	assert.Equal(t, "%Y-%m-%d", kind.TimeColumn.Format)
	assert.True(t, kind.IsMaterialized())
}

func TestResolveKind_FromKindDef_UniqueKey(t *testing.T) {
	def := &core.KindDef{
		Name: "incremental_by_unique_key",
		Props: []core.Property{
			{Name: "unique_key", Value: &core.Tuple{Exprs: []core.Expr{
				&core.Ident{Value: "user_id"},
				&core.Ident{Value: "ds"},
			}}},
		},
	}

	out, err := ResolveKind(def)
	require.NoError(t, err)

	kind, ok := out.(IncrementalByUniqueKey)
	require.True(t, ok)
	assert.Equal(t, []string{"user_id", "ds"}, kind.UniqueKey)
}

func TestResolveKind_FromMap(t *testing.T) {
	out, err := ResolveKind(map[string]any{
		"name": "INCREMENTAL_BY_TIME_RANGE",
		"time_column": map[string]any{
			"column": "ds",
			"format": "%Y-%m-%d",
		},
	})
	require.NoError(t, err)

	kind, ok := out.(IncrementalByTimeRange)
	require.True(t, ok)
	require.NotNil(t, kind.TimeColumn)
	assert.Equal(t, "ds", kind.TimeColumn.Column)
	assert.Equal(t, "%Y-%m-%d", kind.TimeColumn.Format)
}

func TestResolveKind_MapTimeColumnAsString(t *testing.T) {
	out, err := ResolveKind(map[string]any{
		"name":        "INCREMENTAL_BY_TIME_RANGE",
		"time_column": "ds",
	})
	require.NoError(t, err)

	kind := out.(IncrementalByTimeRange)
	require.NotNil(t, kind.TimeColumn)
	assert.Equal(t, "ds", kind.TimeColumn.Column)
	assert.Equal(t, "", kind.TimeColumn.Format)
}

// A kind resolved from its mapping form and from its structured AST form
// with equivalent properties must be field-for-field identical.
func TestResolveKind_MapAndDefEquivalent(t *testing.T) {
	fromMap, err := ResolveKind(map[string]any{
		"name":        "INCREMENTAL_BY_TIME_RANGE",
		"time_column": map[string]any{"column": "ds", "format": "%Y-%m-%d"},
	})
	require.NoError(t, err)

	fromDef, err := ResolveKind(&core.KindDef{
		Name: "INCREMENTAL_BY_TIME_RANGE",
		Props: []core.Property{
			{Name: "time_column", Value: &core.Tuple{Exprs: []core.Expr{
				&core.Ident{Value: "ds"},
				&core.Literal{Type: core.LiteralString, Value: "%Y-%m-%d"},
			}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, fromMap, fromDef)
}

func TestResolveKind_BareNames(t *testing.T) {
	for _, name := range []string{"FULL", "SNAPSHOT", "VIEW", "EMBEDDED", "view"} {
		out, err := ResolveKind(name)
		require.NoError(t, err, name)
		kind, ok := out.(BaseKind)
		require.True(t, ok, name)
		assert.EqualValues(t, kindNameUpper(name), kind.Name())
	}
}

func kindNameUpper(s string) string {
	n, _ := ParseKindName(s)
	return string(n)
}

// A bare name, even an incremental one, resolves to the generic variant:
// structured fields only come from the structured shapes.
func TestResolveKind_BareIncrementalNameIsGeneric(t *testing.T) {
	out, err := ResolveKind("INCREMENTAL_BY_TIME_RANGE")
	require.NoError(t, err)
	kind, ok := out.(BaseKind)
	require.True(t, ok)
	assert.Equal(t, KindIncrementalByTimeRange, kind.Name())
	assert.True(t, kind.IsMaterialized())
}

func TestResolveKind_FromExpr(t *testing.T) {
	out, err := ResolveKind(&core.Ident{Value: "FULL"})
	require.NoError(t, err)
	assert.Equal(t, KindFull, out.Name())
}

func TestResolveKind_UnknownName(t *testing.T) {
	_, err := ResolveKind("MATERIALIZED_VIEWISH")
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "MATERIALIZED_VIEWISH")
}

func TestResolveKind_MapMissingName(t *testing.T) {
	_, err := ResolveKind(map[string]any{"time_column": "ds"})
	require.Error(t, err)
}

func TestKindMaterialization(t *testing.T) {
	assert.False(t, BaseKind{KindName: KindView}.IsMaterialized())
	assert.False(t, BaseKind{KindName: KindEmbedded}.IsMaterialized())
	assert.True(t, BaseKind{KindName: KindFull}.IsMaterialized())
	assert.True(t, BaseKind{KindName: KindSnapshot}.IsMaterialized())
	assert.True(t, IncrementalByTimeRange{}.IsMaterialized())
	assert.True(t, IncrementalByUniqueKey{}.IsMaterialized())
}
