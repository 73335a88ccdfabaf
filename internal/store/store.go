package store

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gremlinbridge/internal/errs"
	"gremlinbridge/internal/graph"
	"gremlinbridge/internal/table"
)

// rowColumn records insertion order so tables load back in row order.
const rowColumn = "_gremlinbridge_row"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store saves and loads tables through a DuckDB client.
type Store struct {
	client *DuckDBClient
}

// New returns a store over client.
func New(client *DuckDBClient) *Store {
	return &Store{client: client}
}

// SaveTable creates or replaces table name with the contents of t. Column types are inferred
// from the non-null values: BOOLEAN, BIGINT, DOUBLE, else VARCHAR.
func (s *Store) SaveTable(ctx context.Context, name string, t *table.Table) error {
	if !tableName.MatchString(name) {
		return errs.Config("table", "invalid table name %q", name)
	}
	cols := t.Columns()
	if len(cols) == 0 {
		return errs.Config(name, "table has no columns")
	}
	if slices.Contains(cols, rowColumn) {
		return errs.Config(rowColumn, "reserved column name")
	}

	types := make([]sqlType, len(cols))
	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, quote(rowColumn)+" BIGINT")
	for i, c := range cols {
		values, _ := t.Column(c)
		types[i] = inferType(values)
		defs = append(defs, quote(c)+" "+string(types[i]))
	}

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ddl := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", quote(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quote(name), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", name, err)
	}
	defer stmt.Close()

	i := int64(0)
	for row := range t.Rows() {
		args := make([]any, 0, len(cols)+1)
		args = append(args, i)
		for j, c := range cols {
			v, _ := row.Get(c)
			args = append(args, types[j].convert(v))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
		i++
	}
	return tx.Commit()
}

// LoadTable reads table name back in the order it was saved.
func (s *Store) LoadTable(ctx context.Context, name string) (*table.Table, error) {
	if !tableName.MatchString(name) {
		return nil, errs.Config("table", "invalid table name %q", name)
	}
	rows, err := s.client.DB().QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quote(name), quote(rowColumn)))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	skip := slices.Index(cols, rowColumn)

	var data [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		if skip >= 0 {
			vals = slices.Delete(vals, skip, skip+1)
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if skip >= 0 {
		cols = slices.Delete(cols, skip, skip+1)
	}
	return table.New(cols, data)
}

// HasTable reports whether table name exists.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.client.DB().QueryRowContext(ctx,
		"SELECT count(*) FROM information_schema.tables WHERE table_name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", name, err)
	}
	return n > 0, nil
}

// SaveGraph stores g's tables as <prefix>_nodes and <prefix>_edges. Missing tables are skipped.
func (s *Store) SaveGraph(ctx context.Context, prefix string, g graph.Graph) error {
	if nodes := g.Nodes(); nodes != nil && len(nodes.Columns()) > 0 {
		if err := s.SaveTable(ctx, prefix+"_nodes", nodes); err != nil {
			return err
		}
	}
	if edges := g.Edges(); edges != nil && len(edges.Columns()) > 0 {
		if err := s.SaveTable(ctx, prefix+"_edges", edges); err != nil {
			return err
		}
	}
	return nil
}

// LoadGraph loads the tables saved under prefix and binds them with b. A table that was
// never saved stays nil.
func (s *Store) LoadGraph(ctx context.Context, prefix string, b graph.Bindings) (graph.Graph, error) {
	load := func(name string) (*table.Table, error) {
		ok, err := s.HasTable(ctx, name)
		if err != nil || !ok {
			return nil, err
		}
		return s.LoadTable(ctx, name)
	}

	nodes, err := load(prefix + "_nodes")
	if err != nil {
		return graph.Graph{}, err
	}
	edges, err := load(prefix + "_edges")
	if err != nil {
		return graph.Graph{}, err
	}
	return graph.New(nodes, edges, b), nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
