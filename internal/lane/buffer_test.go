package lane

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_FIFOWithWrapAround(t *testing.T) {
	r := newRing[int](4)

	for i := range 3 {
		r.Push(i)
	}
	assert.Equal(t, []int{0, 1}, r.PopN(2))

	// хвост переходит через конец массива
	for i := 3; i < 6; i++ {
		r.Push(i)
	}
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, []int{2, 3, 4, 5}, r.PopN(10))
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.PopN(1))
}

func TestRing_Grow(t *testing.T) {
	r := newRing[int](0)

	for i := range 100 {
		r.Push(i)
	}

	v, ok := r.PopFront()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 99, r.Len())

	got := r.PopN(99)
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 99, got[98])

	_, ok = r.PopFront()
	assert.False(t, ok)
}
