package slot

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Mode selects how a replicator transfers a value between two slots.
type Mode uint8

const (
	// Copy constructs an independent copy of the source value.
	Copy Mode = iota

	// Move transfers the source value into the destination. The source
	// is zeroed and left in a valid but unspecified state.
	Move
)

func (m Mode) String() string {
	switch m {
	case Copy:
		return "copy"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Cloner can be implemented (with a value receiver) by a stored type to
// customize how it is copied during replication. Without it, copying is
// plain value assignment, which shares any referenced memory.
type Cloner[T any] interface {
	Clone() T
}

// Disposer can be implemented by a stored type (or its pointer) to run
// teardown logic when the holding container resets or overwrites it.
type Disposer interface {
	Dispose()
}

// replicate copies or moves a live value from src into the
// uninitialized memory at dst.
type replicate func(mode Mode, dst, src unsafe.Pointer)

// replicatorFor builds the replicator for a statically known type.
func replicatorFor[T any]() replicate {
	var zero T
	_, clonable := any(zero).(Cloner[T])

	return func(mode Mode, dst, src unsafe.Pointer) {
		switch mode {
		case Copy:
			if clonable {
				*(*T)(dst) = any(*(*T)(src)).(Cloner[T]).Clone()
				return
			}

			*(*T)(dst) = *(*T)(src)

		case Move:
			*(*T)(dst) = *(*T)(src)

			var zero T
			*(*T)(src) = zero

		default:
			panic(fmt.Sprintf("slot: replicate %s: invalid mode %s", reflect.TypeFor[T](), mode))
		}
	}
}

// replicatorOf builds the replicator for a type only known through
// reflection. It must behave exactly like the replicator built by
// replicatorFor for the same type.
func replicatorOf(reflectType reflect.Type) replicate {
	clone, clonable := cloneMethodOf(reflectType)

	return func(mode Mode, dst, src unsafe.Pointer) {
		target := reflect.NewAt(reflectType, dst).Elem()
		source := reflect.NewAt(reflectType, src).Elem()

		switch mode {
		case Copy:
			if clonable {
				target.Set(clone(source))
				return
			}

			target.Set(source)

		case Move:
			target.Set(source)
			source.SetZero()

		default:
			panic(fmt.Sprintf("slot: replicate %s: invalid mode %s", reflectType, mode))
		}
	}
}

// cloneMethodOf looks up a value receiver method Clone with the
// signature func() T, matching what Cloner[T] requires.
func cloneMethodOf(reflectType reflect.Type) (func(value reflect.Value) reflect.Value, bool) {
	method, ok := reflectType.MethodByName("Clone")
	if !ok || method.Type.NumIn() != 1 || method.Type.NumOut() != 1 || method.Type.Out(0) != reflectType {
		return nil, false
	}

	return func(value reflect.Value) reflect.Value {
		return method.Func.Call([]reflect.Value{value})[0]
	}, true
}

func disposerFor[T any]() func(ptr unsafe.Pointer) bool {
	if _, ok := any((*T)(nil)).(Disposer); !ok {
		return nil
	}

	return func(ptr unsafe.Pointer) bool {
		any((*T)(ptr)).(Disposer).Dispose()
		return true
	}
}

func disposerOf(reflectType reflect.Type) func(ptr unsafe.Pointer) bool {
	if !reflect.PointerTo(reflectType).Implements(reflect.TypeFor[Disposer]()) {
		return nil
	}

	return func(ptr unsafe.Pointer) bool {
		reflect.NewAt(reflectType, ptr).Interface().(Disposer).Dispose()
		return true
	}
}
