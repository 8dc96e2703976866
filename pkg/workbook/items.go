package workbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"iter"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

// ReadItems decodes a stream of JSON values into export items. Objects
// become records, arrays become nested collections, null becomes a null
// item and any other value is wrapped in a single-field record. Values may
// be separated by whitespace or newlines.
func ReadItems(r io.Reader) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		dec := json.NewDecoder(r)
		dec.UseNumber()
		for {
			var raw json.RawMessage
			err := dec.Decode(&raw)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Item{}, err)
				return
			}
			item, err := decodeItem(raw)
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

func decodeItem(raw json.RawMessage) (Item, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return Item{}, nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return Item{}, err
		}
		values := make([]any, 0, len(elems))
		for _, e := range elems {
			v, err := decodeValue(e)
			if err != nil {
				return Item{}, err
			}
			values = append(values, v)
		}
		return NestedItem(values), nil
	default:
		v, err := decodeValue(trimmed)
		if err != nil {
			return Item{}, err
		}
		return RecordItem(asRecord(v)), nil
	}
}

// decodeValue decodes an object as a record and anything else as a plain
// value. Numbers stay json.Number so integers keep their precision.
func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		rec := models.NewRecord(0)
		if err := json.Unmarshal(trimmed, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
