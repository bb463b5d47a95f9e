package models

// EventTable is the tabular form of a calendar payload: named columns with
// positionally indexed cells. Some provider versions hand calendar data
// back in this shape instead of a flat mapping, so the service must accept
// both and fold them into one response shape.
type EventTable struct {
	Columns []string
	Rows    []map[string]any
}

// Empty reports whether the table holds no rows.
func (t EventTable) Empty() bool {
	return len(t.Rows) == 0
}
