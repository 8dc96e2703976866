package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

func TestPartitionerGroups(t *testing.T) {
	r1, r2, r3, r4, r5 := record("n", 1), record("n", 2), record("n", 3), record("n", 4), record("n", 5)

	var p Partitioner
	p.Add(RecordItem(r1))
	p.Add(RecordItem(r2))
	p.Add(NestedItem([]any{r3, r4}))
	p.Add(RecordItem(r5))

	groups := p.Flush()
	assert.Equal(t, [][]*models.Record{{r1, r2}, {r3, r4}, {r5}}, groups)
	assert.Empty(t, p.Flush())
}

func TestPartitionerEmptyInput(t *testing.T) {
	var p Partitioner
	assert.Empty(t, p.Flush())
}

func TestPartitionerNestedOnly(t *testing.T) {
	var p Partitioner
	p.Add(NestedItem([]any{record("a", 1)}))
	p.Add(NestedItem(nil))
	p.Add(NestedItem([]any{record("b", 2), record("b", 3)}))

	groups := p.Flush()
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 1)
	assert.Len(t, groups[1], 2)
}

func TestPartitionerNullAndPlainValues(t *testing.T) {
	var p Partitioner
	assert.False(t, p.Add(Item{}))
	assert.True(t, p.Add(NestedItem([]any{"x", nil, 7})))

	groups := p.Flush()
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 2)
	v, ok := groups[0][0].Get(ValueField)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	v, _ = groups[0][1].Get(ValueField)
	assert.Equal(t, 7, v)
}

func TestPartitionerNestedClosesCurrent(t *testing.T) {
	var p Partitioner
	p.Add(RecordItem(record("a", 1)))
	p.Add(NestedItem([]any{}))
	p.Add(RecordItem(record("a", 2)))

	assert.Len(t, p.Flush(), 2)
}
