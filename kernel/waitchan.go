package kernel

import "reflect"

// WaitChannel is the opaque sleep-channel token from spec.md §3/§4.5. The
// source kernel overloads a raw pointer value for this; DESIGN NOTES asks
// for an integer token derived from the waited-upon object's identity
// instead of pointer arithmetic, so WaitChannel wraps whatever
// reflect.Value.Pointer() reports for the caller's object.
type WaitChannel uintptr

// ChannelOf derives a stable WaitChannel token from the identity of obj,
// which must be a pointer, channel, map, slice or function value (anything
// reflect.Value.Pointer is defined for). Two calls with the same
// underlying object return the same token; that's the only property
// sleep/wakeup rely on.
func ChannelOf(obj any) WaitChannel {
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Ptr, reflect.Chan, reflect.Map, reflect.Slice, reflect.Func, reflect.UnsafePointer:
		return WaitChannel(v.Pointer())
	default:
		panic("kernel: ChannelOf requires a pointer-like value")
	}
}

// noChannel is the zero value, meaning "not sleeping" (spec.md invariant:
// chan != 0 <=> state == SLEEPING).
const noChannel WaitChannel = 0
