package slot

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestSlot_PlaceInline(t *testing.T) {
	ty := For[plain]()

	s := MakeSlot(64)
	require.Equal(t, uintptr(64), s.Cap())
	require.Nil(t, s.Ptr())

	value := plain{X: 3, Y: 4}
	s.Place(ty, Copy, unsafe.Pointer(&value))

	require.NotNil(t, s.Ptr())
	require.Zero(t, uintptr(s.Ptr())%ty.Align)
	require.Equal(t, plain{X: 3, Y: 4}, *(*plain)(s.Ptr()))
}

func TestSlot_PlaceBoxed(t *testing.T) {
	ty := For[withSlice]()
	require.True(t, ty.HasPointers)

	s := MakeSlot(ty.Size)

	value := withSlice{Values: []int{1, 2}}
	s.Place(ty, Copy, unsafe.Pointer(&value))

	require.Equal(t, []int{1, 2}, (*withSlice)(s.Ptr()).Values)
}

func TestSlot_PlaceTooLargePanics(t *testing.T) {
	ty := For[plain]()

	s := MakeSlot(ty.Size - 1)

	value := plain{X: 1}
	require.Panics(t, func() {
		s.Place(ty, Copy, unsafe.Pointer(&value))
	})
}

func TestSlot_Reset(t *testing.T) {
	ty := For[plain]()

	s := MakeSlot(64)
	value := plain{X: 1}
	s.Place(ty, Copy, unsafe.Pointer(&value))

	s.Reset(ty)
	require.Nil(t, s.Ptr())

	// resetting an empty slot is fine
	s.Reset(nil)
	require.Nil(t, s.Ptr())
}

func TestSlot_SwapInline(t *testing.T) {
	tyA := For[plain]()
	tyB := For[int64]()

	a := MakeSlot(64)
	valueA := plain{X: 1, Y: 2}
	a.Place(tyA, Copy, unsafe.Pointer(&valueA))

	b := MakeSlot(64)
	valueB := int64(7)
	b.Place(tyB, Copy, unsafe.Pointer(&valueB))

	a.Swap(&b, tyA, tyB)

	require.Equal(t, int64(7), *(*int64)(a.Ptr()))
	require.Equal(t, plain{X: 1, Y: 2}, *(*plain)(b.Ptr()))
}

func TestSlot_SwapBoxedAndInline(t *testing.T) {
	tyBoxed := For[withSlice]()
	tyInline := For[plain]()

	a := MakeSlot(64)
	boxed := withSlice{Values: []int{1, 2, 3}}
	a.Place(tyBoxed, Copy, unsafe.Pointer(&boxed))

	b := MakeSlot(64)
	inline := plain{X: 5}
	b.Place(tyInline, Copy, unsafe.Pointer(&inline))

	a.Swap(&b, tyBoxed, tyInline)

	require.Equal(t, plain{X: 5}, *(*plain)(a.Ptr()))
	require.Equal(t, []int{1, 2, 3}, (*withSlice)(b.Ptr()).Values)
}

func TestSlot_SwapWithEmpty(t *testing.T) {
	ty := For[plain]()

	a := MakeSlot(64)
	value := plain{X: 1}
	a.Place(ty, Copy, unsafe.Pointer(&value))

	b := MakeSlot(64)

	a.Swap(&b, ty, nil)

	require.Nil(t, a.Ptr())
	require.Equal(t, plain{X: 1}, *(*plain)(b.Ptr()))
}

func TestSlot_SwapCapacityMismatchPanics(t *testing.T) {
	ty := For[plain]()

	a := MakeSlot(64)
	value := plain{X: 1}
	a.Place(ty, Copy, unsafe.Pointer(&value))

	// the value does not fit the other slot
	b := MakeSlot(ty.Size - 1)

	require.Panics(t, func() {
		a.Swap(&b, ty, nil)
	})
}
