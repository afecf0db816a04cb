package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkilpat/sqlmesh/pkg/core"
)

func TestBuild_Defaults(t *testing.T) {
	m, err := Build(map[string]any{"name": "db.events"})
	require.NoError(t, err)

	assert.Equal(t, "db.events", m.Name())
	assert.Equal(t, DefaultCron, m.Cron())
	assert.Equal(t, KindIncrementalByTimeRange, m.Kind().Name())
	assert.Zero(t, m.BatchSize())
	assert.Nil(t, m.Start())
	assert.Empty(t, m.PartitionedBy())
}

func TestBuild_NameRequired(t *testing.T) {
	_, err := Build(map[string]any{"cron": "@daily"})
	require.Error(t, err)
}

func TestBuild_UnknownField(t *testing.T) {
	_, err := Build(map[string]any{"name": "m", "materialised": "table"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "materialised")
}

func TestBuild_StringFieldsFromExprs(t *testing.T) {
	m, err := Build(map[string]any{
		"name":           &core.TableRef{Schema: "db", Name: "events"},
		"dialect":        &core.Ident{Value: "duckdb"},
		"owner":          &core.Literal{Type: core.LiteralString, Value: "data-team"},
		"description":    "user events",
		"storage_format": &core.Ident{Value: "parquet"},
	})
	require.NoError(t, err)

	assert.Equal(t, "db.events", m.Name())
	assert.Equal(t, "duckdb", m.Dialect())
	assert.Equal(t, "data-team", m.Owner())
	assert.Equal(t, "user events", m.Description())
	assert.Equal(t, "parquet", m.StorageFormat())
}

// A plain integer and the same integer wrapped in a parsed expression
// coerce to the same batch size for any positive value; non-positive
// values fail construction.
func TestBuild_BatchSize(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100, 5000} {
		plain, err := Build(map[string]any{"name": "m", "batch_size": n})
		require.NoError(t, err)

		wrapped, err := Build(map[string]any{
			"name":       "m",
			"batch_size": &core.Literal{Type: core.LiteralNumber, Value: fmt.Sprint(n)},
		})
		require.NoError(t, err)

		assert.Equal(t, n, plain.BatchSize())
		assert.Equal(t, plain.BatchSize(), wrapped.BatchSize())
	}

	for _, n := range []int{0, -1, -50} {
		_, err := Build(map[string]any{"name": "m", "batch_size": n})
		require.Error(t, err, "batch_size %d", n)
		assert.Contains(t, err.Error(), "greater than 0")
	}
}

func TestBuild_InvalidCron(t *testing.T) {
	_, err := Build(map[string]any{"name": "m", "cron": "not a cron"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a cron")
}

func TestBuild_StartValidation(t *testing.T) {
	m, err := Build(map[string]any{"name": "m", "start": "2023-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", m.Start())

	m, err = Build(map[string]any{
		"name":  "m",
		"start": &core.Literal{Type: core.LiteralString, Value: "2023-01-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", m.Start())

	_, err = Build(map[string]any{"name": "m", "start": "yesterday-ish"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yesterday-ish")
}

func TestBuild_DependsOn(t *testing.T) {
	m, err := Build(map[string]any{
		"name": "m",
		"depends_on": &core.Array{Exprs: []core.Expr{
			&core.TableRef{Schema: "db", Name: "orders"},
			&core.Literal{Type: core.LiteralString, Value: "db.customers"},
			&core.TableRef{Schema: "db", Name: "orders"}, // duplicate
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"db.customers", "db.orders"}, m.DependsOn())
}

func TestBuild_DependsOnSingleExpr(t *testing.T) {
	m, err := Build(map[string]any{
		"name":       "m",
		"depends_on": &core.TableRef{Schema: "db", Name: "orders"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"db.orders"}, m.DependsOn())
}

func TestBuild_Columns(t *testing.T) {
	fromSchema, err := Build(map[string]any{
		"name": "m",
		"columns": &core.Schema{Columns: []core.ColumnDef{
			{Name: "id", Type: &core.DataType{Name: "INT"}},
			{Name: "ds", Type: &core.DataType{Name: "TEXT"}},
		}},
	})
	require.NoError(t, err)

	fromMap, err := Build(map[string]any{
		"name":    "m",
		"columns": map[string]any{"id": "int", "ds": "text"},
	})
	require.NoError(t, err)

	assert.Equal(t, fromSchema.ColumnsToTypes(), fromMap.ColumnsToTypes())
	assert.Equal(t, "INT", fromMap.ColumnsToTypes()["id"].Name)
}

func TestBuild_ColumnsInvalidType(t *testing.T) {
	_, err := Build(map[string]any{
		"name":    "m",
		"columns": map[string]any{"id": "int(("},
	})
	require.Error(t, err)
}

func TestBuild_PartitionedByRequiresMaterialized(t *testing.T) {
	_, err := Build(map[string]any{
		"name":           "m",
		"kind":           "VIEW",
		"partitioned_by": []string{"ds"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIEW")

	m, err := Build(map[string]any{
		"name":           "m",
		"kind":           "FULL",
		"partitioned_by": []string{"ds"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ds"}, m.PartitionedBy())
}

func TestBuild_PartitionedByFromExprs(t *testing.T) {
	m, err := Build(map[string]any{
		"name": "m",
		"partitioned_by": &core.Tuple{Exprs: []core.Expr{
			&core.Ident{Value: "ds"},
			&core.Ident{Value: "region"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ds", "region"}, m.PartitionedBy())

	m, err = Build(map[string]any{
		"name":           "m",
		"partitioned_by": &core.Ident{Value: "ds"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ds"}, m.PartitionedBy())
}

// The derived accessor puts the kind's time column first and drops
// duplicates while keeping declaration order.
func TestPartitionedBy_TimeColumnFirst(t *testing.T) {
	m, err := Build(map[string]any{
		"name": "m",
		"kind": map[string]any{
			"name":        "INCREMENTAL_BY_TIME_RANGE",
			"time_column": "ds",
		},
		"partitioned_by": []string{"region", "ds", "region"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ds", "region"}, m.PartitionedBy())
	require.NotNil(t, m.TimeColumn())
	assert.Equal(t, "ds", m.TimeColumn().Column)
}

func TestPartitionedBy_DerivedFromTimeColumnOnly(t *testing.T) {
	m, err := Build(map[string]any{
		"name": "m",
		"kind": map[string]any{
			"name":        "INCREMENTAL_BY_TIME_RANGE",
			"time_column": "ds",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ds"}, m.PartitionedBy())
}

func TestBuild_FieldAliases(t *testing.T) {
	m, err := Build(map[string]any{
		"name":           "m",
		"kind":           "FULL",
		"partitionedBy":  []string{"ds"},
		"dependsOn":      []string{"db.orders"},
		"columnsToTypes": map[string]any{"id": "int"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ds"}, m.PartitionedBy())
	assert.Equal(t, []string{"db.orders"}, m.DependsOn())
	assert.Equal(t, "INT", m.ColumnsToTypes()["id"].Name)
}

func TestBuild_IsAllOrNothing(t *testing.T) {
	_, err := Build(map[string]any{
		"name":       "m",
		"cron":       "0 13 * * *",
		"batch_size": -1,
	})
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestColumnsToTypes_ReturnsCopy(t *testing.T) {
	m, err := Build(map[string]any{
		"name":    "m",
		"columns": map[string]any{"id": "int"},
	})
	require.NoError(t, err)

	cols := m.ColumnsToTypes()
	cols["injected"] = &core.DataType{Name: "TEXT"}
	assert.NotContains(t, m.ColumnsToTypes(), "injected")
}
