// Package basebox provides a fixed-capacity container that stores, by
// value, at most one object of any concrete type satisfying a common
// interface, while preserving copy, move and reset semantics and
// allowing type-checked recovery of the original concrete type.
//
// A Storage[B] pairs a fixed-size slot with a per-type replicator that
// is registered once per concrete type. Values of pointer free types
// live inline in the slot; pointer carrying types fall back to a typed
// allocation so the garbage collector can see them.
//
//	type Shape interface{ Area() float64 }
//
//	s := basebox.New[Shape](basebox.SizeOf[Circle]())
//	basebox.Emplace(s, Circle{Radius: 2})
//
//	if c, ok := basebox.Get[Circle](s); ok {
//		fmt.Println(c.Area())
//	}
//
// Containers are not safe for concurrent use without external
// synchronization.
package basebox
