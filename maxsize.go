package basebox

import "reflect"

// SizeOf returns the size of a value of type T in bytes.
func SizeOf[T any]() uintptr {
	return reflect.TypeFor[T]().Size()
}

// AlignOf returns the alignment of a value of type T in bytes.
func AlignOf[T any]() uintptr {
	return uintptr(reflect.TypeFor[T]().Align())
}

// MaxSizeOf returns the largest size in bytes among the given candidate
// types, or zero for an empty candidate list. Use it to size a
// container's capacity for a known closed set of types:
//
//	capacity := basebox.MaxSizeOf(reflect.TypeFor[Circle](), reflect.TypeFor[Rect]())
//	s := basebox.New[Shape](capacity)
func MaxSizeOf(types ...reflect.Type) uintptr {
	var maxSize uintptr
	for _, ty := range types {
		maxSize = max(maxSize, ty.Size())
	}

	return maxSize
}
