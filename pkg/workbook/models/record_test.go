package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsOrder(t *testing.T) {
	rec := NewRecord(3)
	rec.Set("zeta", 1)
	rec.Set("alpha", "x")
	rec.Set("mid", nil)
	rec.Set("zeta", 2)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, rec.Names())
	v, ok := rec.Get("zeta")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":2,"alpha":"x","mid":null}`, string(data))
}

func TestRecordUnmarshalKeepsOrder(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"b":1,"a":{"c":true},"d":"s"}`), &rec))

	assert.Equal(t, []string{"b", "a", "d"}, rec.Names())
	v, _ := rec.Get("d")
	assert.Equal(t, "s", v)
}

func TestRecordZeroValue(t *testing.T) {
	var rec Record
	assert.Equal(t, 0, rec.Len())
	assert.Empty(t, rec.Names())
	_, ok := rec.Get("x")
	assert.False(t, ok)

	data, err := json.Marshal(&rec)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestRecordFromRow(t *testing.T) {
	row := Row{{Name: "a", Value: int64(1)}, {Name: "b"}}
	rec := RecordFromRow(row, "tag")

	assert.Equal(t, "tag", rec.TypeName)
	assert.Equal(t, row, Row(rec.Fields()))
	assert.Equal(t, []string{"a", "b"}, row.Names())
	assert.False(t, row.IsBlank())
	assert.True(t, Row{{Name: "a"}}.IsBlank())
}

func TestCellRange(t *testing.T) {
	open := CellRange{R1: 2, C1: 2}
	assert.False(t, open.PastEnd(1000))

	bounded := CellRange{R1: 1, C1: 1, R2: 3, C2: 2}
	assert.False(t, bounded.PastEnd(3))
	assert.True(t, bounded.PastEnd(4))
}
