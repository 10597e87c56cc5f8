package slot

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type plain struct {
	X, Y int
}

type withSlice struct {
	Values []int
}

type deepCopied struct {
	Values []int
}

func (d deepCopied) Clone() deepCopied {
	values := make([]int, len(d.Values))
	copy(values, d.Values)
	return deepCopied{Values: values}
}

func TestValueType_Interned(t *testing.T) {
	a := For[plain]()
	b := For[plain]()
	require.Same(t, a, b)

	// the reflect based path lands on the same entry
	c := Of(reflect.TypeFor[plain]())
	require.Same(t, a, c)

	require.Equal(t, a.Id, c.Id)
}

func TestValueType_DistinctIds(t *testing.T) {
	a := For[plain]()
	b := For[withSlice]()

	require.NotEqual(t, a.Id, b.Id)
	require.NotSame(t, a, b)
}

func TestValueType_Describes(t *testing.T) {
	ty := For[plain]()

	require.Equal(t, "slot.plain", ty.Name)
	require.Equal(t, "slot.plain", ty.String())
	require.Equal(t, unsafe.Sizeof(plain{}), ty.Size)
	require.False(t, ty.HasPointers)

	require.True(t, For[withSlice]().HasPointers)
}

func TestReplicate_Copy(t *testing.T) {
	ty := For[plain]()

	src := plain{X: 1, Y: 2}
	var dst plain

	ty.Replicate(Copy, unsafe.Pointer(&dst), unsafe.Pointer(&src))

	require.Equal(t, plain{X: 1, Y: 2}, dst)
	require.Equal(t, plain{X: 1, Y: 2}, src)
}

func TestReplicate_Move(t *testing.T) {
	ty := For[plain]()

	src := plain{X: 1, Y: 2}
	var dst plain

	ty.Replicate(Move, unsafe.Pointer(&dst), unsafe.Pointer(&src))

	require.Equal(t, plain{X: 1, Y: 2}, dst)
	require.Equal(t, plain{}, src)
}

func TestReplicate_CopyUsesClone(t *testing.T) {
	// exercise both replicator builders, not just whichever one happened
	// to register the type first
	for name, rep := range map[string]replicate{
		"static":  replicatorFor[deepCopied](),
		"dynamic": replicatorOf(reflect.TypeFor[deepCopied]()),
	} {
		t.Run(name, func(t *testing.T) {
			src := deepCopied{Values: []int{1, 2, 3}}
			var dst deepCopied

			rep(Copy, unsafe.Pointer(&dst), unsafe.Pointer(&src))

			dst.Values[0] = 99
			require.Equal(t, []int{1, 2, 3}, src.Values)
		})
	}
}

func TestReplicate_InvalidModePanics(t *testing.T) {
	ty := For[plain]()

	src := plain{X: 1}
	var dst plain

	require.Panics(t, func() {
		ty.Replicate(Mode(7), unsafe.Pointer(&dst), unsafe.Pointer(&src))
	})
}

func TestMode_String(t *testing.T) {
	require.Equal(t, "copy", Copy.String())
	require.Equal(t, "move", Move.String())
	require.Equal(t, "Mode(7)", Mode(7).String())
}
