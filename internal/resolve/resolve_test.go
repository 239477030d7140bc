package resolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueStates(t *testing.T) {
	u := Unknown()
	_, ok := u.Get()
	assert.False(t, ok)
	assert.False(t, u.IsRange())

	k := Known(-3)
	v, ok := k.Get()
	assert.True(t, ok)
	assert.Equal(t, int32(-3), v)
	assert.False(t, k.IsRange())

	r := Range(0, 5)
	assert.True(t, r.IsRange())
	assert.False(t, r.IsKnown())
	assert.Equal(t, int32(5), r.Max())
	assert.Equal(t, int32(7), r.Or(7))
}

func TestMerge(t *testing.T) {
	sub := func(d, s int32) int32 { return d - s }

	assert.Equal(t, Known(7), Merge(Known(10), Known(3), sub))
	assert.Equal(t, Unknown(), Merge(Unknown(), Known(3), sub))
	assert.Equal(t, Unknown(), Merge(Known(10), Range(0, 4), sub))
	assert.Equal(t, Known(math.MinInt32), Merge(Known(math.MaxInt32), Known(1), func(d, s int32) int32 { return d + s }))
	assert.Equal(t, Unknown(), Range(1, 2).Map(func(v int32) int32 { return v }))
}

func TestRegisterFile(t *testing.T) {
	var r RegisterFile
	r.Set(3, Known(9))
	r.Set(Slots, Known(1))
	r.Set(-1, Known(1))

	assert.Equal(t, Known(9), r.Get(3))
	assert.Equal(t, Unknown(), r.Get(Slots))
	assert.False(t, r.AllUnknown())

	r.Invalidate()
	assert.True(t, r.AllUnknown())
}

func TestStackCopiesOnPush(t *testing.T) {
	var s Stack
	outer := s.Push()
	outer.Set(1, Known(1))

	inner := s.Push()
	assert.Equal(t, Known(1), inner.Get(1))
	inner.Set(1, Known(2))
	inner.Set(2, Range(0, 3))
	assert.Equal(t, 2, s.Depth())

	s.Pop()
	assert.Same(t, outer, s.Top())
	assert.Equal(t, Known(1), outer.Get(1))
	assert.Equal(t, Unknown(), outer.Get(2))

	s.Pop()
	s.Pop()
	assert.Nil(t, s.Top())
}

func TestFixedPoint(t *testing.T) {
	assert.Equal(t, int32(0), SafeDiv(5, 0))
	assert.Equal(t, int32(0), SafeMod(5, 0))
	assert.Equal(t, int32(-1), SafeMod(-7, 3))
	assert.Equal(t, int32(4), Sqrt(17))
	assert.Equal(t, int32(0), Sqrt(-4))
	assert.Equal(t, int32(0x1000), Mul12(0x1000, 0x1000))
	assert.Equal(t, int32(0x2000), Div12(0x4000, 0x2000))
	assert.Equal(t, int32(0), Div12(1, 0))

	assert.Equal(t, int32(0), Sin12(0))
	assert.Equal(t, int32(0x1000), Sin12(1024))
	assert.Equal(t, int32(0x1000), Cos12(0))
	assert.Equal(t, int32(-0x1000), Cos12(2048))

	assert.Equal(t, int32(0), Atan2_12(0, 0))
	assert.Equal(t, int32(1024), Atan2_12(1, 0))
	assert.Equal(t, int32(512), Atan2_12(5, 5))
}
