// Package query builds parameterized SELECT statements over a projection of
// view names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view names to qualified column expressions for one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap for schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column (qualified with the table alias) to viewName.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	return p.add(fmt.Sprintf("%s.%s", p.alias, column), viewName)
}

// ProjectCast maps column cast to typ, e.g. a NUMERIC column read back as text.
func (p *ProjectionMap) ProjectCast(column, typ, viewName string) *ProjectionMap {
	return p.add(fmt.Sprintf("%s.%s::%s", p.alias, column, typ), viewName)
}

func (p *ProjectionMap) add(expr, viewName string) *ProjectionMap {
	p.columns[viewName] = expr
	p.order = append(p.order, expr)
	return p
}

// From returns "schema.table alias".
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the expression mapped to viewName.
func (p *ProjectionMap) Column(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	return col, ok
}

// Columns returns every projected expression in declaration order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
