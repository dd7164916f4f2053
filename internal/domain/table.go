package domain

// Table is a named, flat, ordered projection handed to renderers.
// Cell values are string, int or float64.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Column returns the values of the named column, or nil when absent.
func (t *Table) Column(name string) []any {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}
