package basebox

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/oliverbestmann/basebox/internal/assert"
	"github.com/oliverbestmann/basebox/slot"
)

// ValueType is the dynamic type tag of a stored value. See the slot package.
type ValueType = slot.ValueType

// Cloner can be implemented by stored types to customize copying.
type Cloner[T any] = slot.Cloner[T]

// Disposer can be implemented by stored types to run teardown on reset.
type Disposer = slot.Disposer

// Storage is a fixed-capacity container holding at most one value of a
// concrete type that satisfies the interface B. The value is stored by
// value: placing a value (or a pointer to one) copies it into the
// container's slot, and copying or moving the container replicates the
// held value with it.
//
// A Storage must not be copied by assignment. Use Clone, CopyFrom,
// MoveFrom and Swap instead.
//
// The zero value is a valid empty container with capacity zero.
type Storage[B any] struct {
	_ noCopy

	// ty is the type tag and replicator of the held value.
	// ty is nil iff the container is empty.
	ty   *slot.ValueType
	slot slot.Slot
}

// New returns an empty container able to hold any value that satisfies
// B and fits within capacity bytes. Use MaxSizeOf to size the capacity
// for a known set of candidate types.
func New[B any](capacity uintptr) *Storage[B] {
	return &Storage[B]{slot: slot.MakeSlot(capacity)}
}

// Of returns a container holding a copy of the given value.
func Of[B any](capacity uintptr, value B) *Storage[B] {
	s := New[B](capacity)
	s.Set(value)
	return s
}

// Make returns a container holding the given value of the named
// concrete type T, placed through the statically typed path.
func Make[T any, B any](capacity uintptr, value T) *Storage[B] {
	s := New[B](capacity)
	Emplace(s, value)
	return s
}

// Set destroys the current content, if any, and places a copy of the
// given value into the container. If value is a pointer, the pointee is
// copied and stored; otherwise the value itself is.
//
// Set panics if value is nil or if the concrete type does not fit the
// container's capacity. The container is left unchanged in that case.
func (s *Storage[B]) Set(value B) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		panic("basebox: Set called with nil value")
	}

	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			panic("basebox: Set called with nil pointer")
		}

		s.place(slot.Of(rv.Type().Elem()), slot.Copy, rv.UnsafePointer())
		return
	}

	// copy into addressable memory first, then replicate in copy mode
	// so that a Cloner implementation is honored
	tmp := reflect.New(rv.Type())
	tmp.Elem().Set(rv)

	s.place(slot.Of(rv.Type()), slot.Copy, tmp.UnsafePointer())
}

// Emplace destroys the current content of s, if any, places the given
// value of the concrete type T directly into the container and returns
// a typed pointer to the stored value.
//
// Emplace panics if T does not satisfy B or does not fit the capacity.
func Emplace[T any, B any](s *Storage[B], value T) *T {
	if _, ok := any((*T)(nil)).(B); !ok {
		panic(fmt.Sprintf("basebox: type %s does not satisfy %s", reflect.TypeFor[T](), reflect.TypeFor[B]()))
	}

	// the local copy is ours, so move it into the slot
	s.place(slot.For[T](), slot.Move, unsafe.Pointer(&value))

	return (*T)(s.slot.Ptr())
}

func (s *Storage[B]) place(ty *slot.ValueType, mode slot.Mode, src unsafe.Pointer) {
	assert.Fits(ty.Size, s.slot.Cap())

	s.Reset()
	s.slot.Place(ty, mode, src)
	s.ty = ty
}

// CopyFrom destroys the current content and replicates other's held
// value into s in copy mode. An empty source leaves s empty.
func (s *Storage[B]) CopyFrom(other *Storage[B]) {
	s.assignFrom(other, slot.Copy)
}

// MoveFrom destroys the current content and replicates other's held
// value into s in move mode. The source container keeps its type tag;
// its value is zeroed and must be considered unspecified until
// reassigned.
func (s *Storage[B]) MoveFrom(other *Storage[B]) {
	s.assignFrom(other, slot.Move)
}

func (s *Storage[B]) assignFrom(other *Storage[B], mode slot.Mode) {
	if s == other {
		return
	}

	if !other.HasValue() {
		s.Reset()
		return
	}

	s.place(other.ty, mode, other.slot.Ptr())
}

// Clone returns a new container with the same capacity holding an
// independent copy of the held value, if any.
func (s *Storage[B]) Clone() *Storage[B] {
	out := New[B](s.Capacity())
	out.CopyFrom(s)
	return out
}

// Reset destroys the held value and leaves the container empty. If the
// value implements Disposer, Dispose is called before it is dropped.
// Reset on an empty container is a no-op.
func (s *Storage[B]) Reset() {
	if s.ty == nil {
		return
	}

	s.slot.Reset(s.ty)
	s.ty = nil
}

// Swap exchanges the type tags and slot contents of both containers
// without replicating or disposing anything. The capacities stay with
// their containers; each held value must fit the other side's capacity.
func (s *Storage[B]) Swap(other *Storage[B]) {
	if s == other {
		return
	}

	s.slot.Swap(&other.slot, s.ty, other.ty)
	s.ty, other.ty = other.ty, s.ty
}

// Swap exchanges the contents of two containers. See Storage.Swap.
func Swap[B any](a, b *Storage[B]) {
	a.Swap(b)
}

// HasValue reports whether the container currently holds a value.
func (s *Storage[B]) HasValue() bool {
	return s.ty != nil
}

// Type returns the dynamic type tag of the held value.
// Type panics if the container is empty.
func (s *Storage[B]) Type() *ValueType {
	assert.NonEmpty(s.ty != nil, "Type")
	return s.ty
}

// Value returns the held value viewed through the interface B. Where
// possible the view is backed by a pointer into the container's slot,
// so mutations through it affect the held value directly.
// Value panics if the container is empty.
func (s *Storage[B]) Value() B {
	assert.NonEmpty(s.ty != nil, "Value")

	ptr := reflect.NewAt(s.ty.Type, s.slot.Ptr())
	if view, ok := ptr.Interface().(B); ok {
		return view
	}

	return ptr.Elem().Interface().(B)
}

// Capacity returns the fixed capacity of this container in bytes.
func (s *Storage[B]) Capacity() uintptr {
	return s.slot.Cap()
}
