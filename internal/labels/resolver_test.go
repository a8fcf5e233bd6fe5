package labels

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "@label_8000", Name(0x8000))
	assert.Equal(t, "@label_00ff", Name(0xff))
}

func TestIsOrigin(t *testing.T) {
	address, ok := IsOrigin("1234:")
	assert.True(t, ok)
	assert.Equal(t, 0x1234, address)

	_, ok = IsOrigin("@label_1234")
	assert.False(t, ok)
	_, ok = IsOrigin("jmp @label_1234")
	assert.False(t, ok)
}

func TestResolverInRange(t *testing.T) {
	r := NewResolver(NewIndex(), 0x8000, 3)

	assert.False(t, r.InRange(0x7fff))
	assert.True(t, r.InRange(0x8000))
	assert.True(t, r.InRange(0x8003))
	assert.False(t, r.InRange(0x8004))
}

func TestResolverBackwardReference(t *testing.T) {
	ix := NewIndex()
	ix.Record(0x8000, 0)
	ix.Record(0x8001, 1)
	ix.Record(0x8004, 2)
	r := NewResolver(ix, 0x8000, 8)

	assert.Equal(t, "@label_8001", r.Resolve(0x8001))
	assert.Equal(t, []int{1}, r.Lines())
	assert.Equal(t, []string{"@label_8001"}, r.Injection(1))
}

func TestResolverIsIdempotent(t *testing.T) {
	ix := NewIndex()
	ix.Record(0x8000, 0)
	r := NewResolver(ix, 0x8000, 8)

	first := r.Resolve(0x8000)
	second := r.Resolve(0x8000)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"@label_8000"}, r.Injection(0))
}

func TestResolverMultipleLabelsOnSameLine(t *testing.T) {
	ix := NewIndex()
	ix.Record(0x8000, 0)
	ix.Record(0x8003, 1)
	r := NewResolver(ix, 0x8000, 6)

	r.Resolve(0x8003)
	r.Resolve(0x8001) // inside the first instruction, uses the next instruction line
	r.Resolve(0x8003)

	assert.Equal(t, []string{"@label_8003", "@label_8001"}, r.Injection(1))
}

func TestResolverOutOfRange(t *testing.T) {
	ix := NewIndex()
	ix.Record(0x8000, 0)
	ix.Record(0x8003, 1)
	r := NewResolver(ix, 0x8000, 6)

	assert.Equal(t, "@label_0100", r.Resolve(0x0100))
	assert.Equal(t, []string{"0100:", "@label_0100", "8000:"}, r.Injection(0))

	r.Resolve(0x0100)
	assert.Len(t, r.Injection(0), 3)
}

func TestResolverLinesSorted(t *testing.T) {
	ix := NewIndex()
	for i := range 5 {
		ix.Record(0x8000+i, i)
	}
	r := NewResolver(ix, 0x8000, 5)

	r.Resolve(0x8004)
	r.Resolve(0x8001)
	r.Resolve(0x8003)

	assert.Equal(t, []int{1, 3, 4}, r.Lines())
	assert.Empty(t, r.Injection(2))
}
