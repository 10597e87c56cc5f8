package slot

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/oliverbestmann/basebox/internal/assert"
)

type ValueTypeId uint16

// ValueType describes a concrete type that can be placed into a Slot.
// There is exactly one ValueType instance per concrete type, so two
// ValueType pointers compare equal iff they describe the same type.
type ValueType struct {
	Name string
	Type reflect.Type

	// The Id of the type. Ids are assigned when a type is first
	// registered and are stable for the lifetime of the process.
	Id ValueTypeId

	// Size and Align of a value of this type, in bytes.
	Size  uintptr
	Align uintptr

	// HasPointers indicates that a value of the type contains pointers, e.g.
	// by having a field of type *T, a string, a slice or a map value. Such
	// values must live in memory the garbage collector can see.
	HasPointers bool

	replicate replicate
	dispose   func(ptr unsafe.Pointer) bool
}

func (v *ValueType) String() string {
	return v.Name
}

// New allocates a fresh zero value of this type and returns a
// pointer-typed reflect.Value to it.
func (v *ValueType) New() reflect.Value {
	return reflect.New(v.Type)
}

// Replicate copies (or moves) a live value of this type from src into the
// uninitialized memory at dst. In move mode the source value is zeroed
// afterwards and is left valid but unspecified.
func (v *ValueType) Replicate(mode Mode, dst, src unsafe.Pointer) {
	assert.NotNilPtr(dst, "destination")
	assert.NotNilPtr(src, "source")
	v.replicate(mode, dst, src)
}

// Dispose invokes the Dispose method of the value at ptr, if the type
// implements Disposer. Reports whether a Dispose method was called.
func (v *ValueType) Dispose(ptr unsafe.Pointer) bool {
	if v.dispose == nil {
		return false
	}
	return v.dispose(ptr)
}

var valueTypes atomic.Pointer[map[unsafe.Pointer]*ValueType]

func init() {
	// initialize the lookup table
	valueTypes.Store(&map[unsafe.Pointer]*ValueType{})
}

// For returns the interned ValueType for the statically known type T,
// registering it on first use.
func For[T any]() *ValueType {
	reflectType := reflect.TypeFor[T]()
	ptrToType := abiTypePointerTo(reflectType)

	if cached, ok := (*valueTypes.Load())[ptrToType]; ok {
		return cached
	}

	return ensureValueType(ptrToType, func(id ValueTypeId) *ValueType {
		ty := makeValueType(reflectType, id)
		ty.replicate = replicatorFor[T]()
		ty.dispose = disposerFor[T]()
		return ty
	})
}

// Of returns the interned ValueType for a type only known through
// reflection. It registers the same entry For would register, with
// replication going through reflect instead of typed assignments.
func Of(reflectType reflect.Type) *ValueType {
	ptrToType := abiTypePointerTo(reflectType)

	if cached, ok := (*valueTypes.Load())[ptrToType]; ok {
		return cached
	}

	return ensureValueType(ptrToType, func(id ValueTypeId) *ValueType {
		ty := makeValueType(reflectType, id)
		ty.replicate = replicatorOf(reflectType)
		ty.dispose = disposerOf(reflectType)
		return ty
	})
}

func makeValueType(reflectType reflect.Type, id ValueTypeId) *ValueType {
	return &ValueType{
		Id:          id,
		Type:        reflectType,
		Name:        reflectType.String(),
		Size:        reflectType.Size(),
		Align:       uintptr(reflectType.Align()),
		HasPointers: typeHasPointers(reflectType),
	}
}

func ensureValueType(ptrToType unsafe.Pointer, makeType func(id ValueTypeId) *ValueType) *ValueType {
	for {
		previousTypes := valueTypes.Load()
		if cached, ok := (*previousTypes)[ptrToType]; ok {
			return cached
		}

		newTypeId := ValueTypeId(len(*previousTypes) + 1)

		newType := makeType(newTypeId)

		newTypes := maps.Clone(*previousTypes)
		newTypes[ptrToType] = newType

		if valueTypes.CompareAndSwap(previousTypes, &newTypes) {
			slog.Debug(
				"New value type registered",
				slog.String("name", newType.Name),
				slog.Int("id", int(newType.Id)),
			)

			return newType
		}
	}
}

func abiTypePointerTo(t reflect.Type) unsafe.Pointer {
	type eface struct {
		typ, val unsafe.Pointer
	}

	// a reflect.Type is backed by an *rType. The rType contains a abi.Type as
	// its first value. This means, that a *rType can be re-interpreted as *abi.Type
	return (*eface)(unsafe.Pointer(&t)).val
}

func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.String,
		reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return true

	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())

	case reflect.Struct:
		for idx := range t.NumField() {
			if typeHasPointers(t.Field(idx).Type) {
				return true
			}
		}
		return false

	default:
		return false
	}
}
