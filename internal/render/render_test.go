package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/table"
)

func TestCell(t *testing.T) {
	assert.Equal(t, "", Cell(nil))
	assert.Equal(t, "", Cell(math.NaN()))
	assert.Equal(t, "abc", Cell("abc"))
	assert.Equal(t, "42", Cell(42))
	assert.Equal(t, "1.5", Cell(1.5))
}

func TestTableTruncates(t *testing.T) {
	tbl, err := table.New([]string{"id", "name"}, [][]any{{"v1", "Alice"}, {"v2", nil}, {"v3", "Carol"}})
	require.NoError(t, err)

	out := Table(tbl, 2)
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "Carol")
	assert.Contains(t, out, "1 more rows")

	full := Table(tbl, 0)
	assert.Contains(t, full, "Carol")
	assert.NotContains(t, full, "more rows")
}

func TestGraphMissingTables(t *testing.T) {
	out := Graph(graph.New(nil, table.Empty("src", "dst"), graph.DefaultBindings()), 10)
	assert.Contains(t, out, "nodes (none)")
	assert.Contains(t, out, "(no table)")
	assert.Contains(t, out, "edges (0 rows)")
	assert.Contains(t, out, "src")
}
