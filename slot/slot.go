package slot

import (
	"reflect"
	"unsafe"

	"github.com/oliverbestmann/basebox/internal/assert"
)

// alignSlack is the worst case number of padding bytes needed to align
// the first byte of the inline buffer. Go types never require more than
// 8 byte alignment.
const alignSlack = 8 - 1

// Slot is a fixed-capacity storage cell holding at most one live value.
// Values of pointer free types live inline in the slot's byte buffer and
// are replicated by raw byte copies. Values of pointer carrying types
// must stay visible to the garbage collector and are held in a typed
// allocation anchored by the slot instead.
//
// A Slot does not know what it holds. The ValueType of the live value is
// tracked by the owning container and passed back in for every operation
// that needs it.
type Slot struct {
	// buf is the inline storage. It is allocated once and never grows.
	buf []byte

	// box anchors the typed allocation for pointer carrying values.
	box reflect.Value

	// ptr points at the live value, either into buf or into box.
	// A nil ptr means the slot is empty.
	ptr unsafe.Pointer

	cap uintptr
}

// MakeSlot returns an empty slot with the given capacity in bytes.
func MakeSlot(capacity uintptr) Slot {
	return Slot{
		buf: make([]byte, capacity+alignSlack),
		cap: capacity,
	}
}

// Cap returns the fixed capacity of this slot in bytes.
func (s *Slot) Cap() uintptr {
	return s.cap
}

// Ptr returns a pointer to the live value, or nil if the slot is empty.
func (s *Slot) Ptr() unsafe.Pointer {
	return s.ptr
}

// Place replicates the live value of type ty at src into this slot.
// The slot must be empty and the value must fit the slot's capacity.
func (s *Slot) Place(ty *ValueType, mode Mode, src unsafe.Pointer) {
	assert.Fits(ty.Size, s.cap)

	if ty.HasPointers {
		s.box = ty.New()
		s.ptr = s.box.UnsafePointer()
	} else {
		s.ptr = s.alignedBase(ty.Align)
	}

	ty.Replicate(mode, s.ptr, src)
}

// Reset destroys the live value of type ty, if any, and leaves the slot
// empty. Calling Reset on an empty slot is a no-op.
func (s *Slot) Reset(ty *ValueType) {
	if s.ptr == nil {
		return
	}

	ty.Dispose(s.ptr)

	s.box = reflect.Value{}
	s.ptr = nil
}

// Swap exchanges the contents of two slots without replicating anything.
// ty is the type held by this slot, tyOther the type held by other;
// either may be nil for an empty side. Each held value must fit the
// capacity of the slot it moves into.
//
// Inline values are exchanged bytewise, which is always a correct
// relocation for pointer free types. Boxed values are exchanged by
// handing over their anchors, so their bytes never move at all.
func (s *Slot) Swap(other *Slot, ty, tyOther *ValueType) {
	if ty != nil {
		assert.Fits(ty.Size, other.cap)
	}
	if tyOther != nil {
		assert.Fits(tyOther.Size, s.cap)
	}

	parkedA := s.park(ty)
	parkedB := other.park(tyOther)

	s.unpark(tyOther, parkedB)
	other.unpark(ty, parkedA)
}

// parked carries a slot's content while it is detached during a swap.
// Exactly one of box or bytes is set for a non-empty slot.
type parked struct {
	box   reflect.Value
	ptr   unsafe.Pointer
	bytes []byte
}

func (s *Slot) park(ty *ValueType) parked {
	if ty == nil || s.ptr == nil {
		return parked{}
	}

	if ty.HasPointers {
		p := parked{box: s.box, ptr: s.ptr}
		s.box = reflect.Value{}
		s.ptr = nil
		return p
	}

	bytes := make([]byte, ty.Size)
	copy(bytes, unsafe.Slice((*byte)(s.ptr), ty.Size))
	s.ptr = nil
	return parked{bytes: bytes}
}

func (s *Slot) unpark(ty *ValueType, p parked) {
	if ty == nil {
		s.box = reflect.Value{}
		s.ptr = nil
		return
	}

	if p.bytes == nil {
		s.box = p.box
		s.ptr = p.ptr
		return
	}

	s.box = reflect.Value{}
	s.ptr = s.alignedBase(ty.Align)
	copy(unsafe.Slice((*byte)(s.ptr), ty.Size), p.bytes)
}

// alignedBase returns the first properly aligned address within buf.
func (s *Slot) alignedBase(align uintptr) unsafe.Pointer {
	base := unsafe.Pointer(unsafe.SliceData(s.buf))
	offset := (align - uintptr(base)%align) % align
	return unsafe.Add(base, offset)
}
