package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is an ordered mapping from field name to value. Field names are
// unique; setting an existing name replaces its value in place.
type Record struct {
	// TypeName tags where the record came from (empty for user input).
	TypeName string

	fields *orderedmap.OrderedMap[string, any]
}

// NewRecord returns an empty record with room for capacity fields.
func NewRecord(capacity int) *Record {
	return &Record{fields: orderedmap.New[string, any](capacity)}
}

// RecordFromRow builds a record from a codec row, keeping column order.
func RecordFromRow(row Row, typeName string) *Record {
	rec := NewRecord(len(row))
	rec.TypeName = typeName
	for _, f := range row {
		rec.Set(f.Name, f.Value)
	}
	return rec
}

// Set assigns value to name, appending the field if it is new.
func (r *Record) Set(name string, value any) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
	r.fields.Set(name, value)
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (any, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(name)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Names returns the field names in order.
func (r *Record) Names() []string {
	names := make([]string, 0, r.Len())
	if r.fields == nil {
		return names
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Fields returns the fields in order.
func (r *Record) Fields() []Field {
	fields := make([]Field, 0, r.Len())
	if r.fields == nil {
		return fields
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{Name: pair.Key, Value: pair.Value})
	}
	return fields
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, any]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return err
	}
	r.fields = fields
	return nil
}
