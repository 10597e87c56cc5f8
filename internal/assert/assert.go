package assert

import (
	"fmt"
	"unsafe"
)

func Fits(size, capacity uintptr) {
	if size > capacity {
		panic(fmt.Sprintf("value size %d exceeds capacity %d", size, capacity))
	}
}

func NotNilPtr(ptr unsafe.Pointer, what string) {
	if ptr == nil {
		panic(fmt.Sprintf("expected non-nil %s pointer", what))
	}
}

func NonEmpty(hasValue bool, op string) {
	if !hasValue {
		panic(fmt.Sprintf("%s called on empty storage", op))
	}
}
