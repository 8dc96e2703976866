package workbook

import "github.com/ukaji3/workbook-go/pkg/workbook/models"

// Item is one element of the export input stream: a record, or a nested
// collection whose elements form a sheet of their own. An Item with
// neither is a null input and is skipped.
type Item struct {
	Record *models.Record
	// Nested is non-nil for a nested collection. Elements are
	// *models.Record or plain values.
	Nested []any
}

// RecordItem wraps a record as an Item.
func RecordItem(rec *models.Record) Item {
	return Item{Record: rec}
}

// NestedItem wraps a nested collection as an Item.
func NestedItem(values []any) Item {
	if values == nil {
		values = []any{}
	}
	return Item{Nested: values}
}

// IsNull reports whether the item carries nothing.
func (i Item) IsNull() bool {
	return i.Record == nil && i.Nested == nil
}

// ValueField names the single field of a record wrapping a plain value.
const ValueField = "Value"

// Partitioner splits a stream of items into sheet groups. Regular records
// accumulate into the current group; a nested collection closes the
// current group and becomes a group of its own.
type Partitioner struct {
	groups  [][]*models.Record
	current []*models.Record
}

// Add feeds one item. It returns false for a null item, which is ignored.
func (p *Partitioner) Add(item Item) bool {
	switch {
	case item.Nested != nil:
		p.closeCurrent()
		group := make([]*models.Record, 0, len(item.Nested))
		for _, v := range item.Nested {
			if rec := asRecord(v); rec != nil {
				group = append(group, rec)
			}
		}
		if len(group) > 0 {
			p.groups = append(p.groups, group)
		}
		return true
	case item.Record != nil:
		p.current = append(p.current, item.Record)
		return true
	default:
		return false
	}
}

// Flush closes the current group and returns every non-empty group in
// input order. The partitioner is reset.
func (p *Partitioner) Flush() [][]*models.Record {
	p.closeCurrent()
	groups := p.groups
	p.groups = nil
	return groups
}

func (p *Partitioner) closeCurrent() {
	if len(p.current) > 0 {
		p.groups = append(p.groups, p.current)
		p.current = nil
	}
}

// asRecord returns v as a record, wrapping plain values. Nil yields nil.
func asRecord(v any) *models.Record {
	switch val := v.(type) {
	case nil:
		return nil
	case *models.Record:
		return val
	default:
		rec := models.NewRecord(1)
		rec.Set(ValueField, val)
		return rec
	}
}
