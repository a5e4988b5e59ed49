package typedfn

import "reflect"

// fnPointer returns the code pointer backing a Fn value, used only to
// detect "the same implementation" during Merge (Go func values
// cannot be compared with ==).
func fnPointer(fn Fn) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}
