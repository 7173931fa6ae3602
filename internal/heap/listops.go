/*
File    : easyscript/internal/heap/listops.go
List mutation helpers used by both the evaluator (index assignment) and
the builtins package (push/pop/remove/insert), grounded on the same
payload-mutation idiom as equality.go's MapSet/MapGet.
*/

package heap

// ListLen returns the number of elements in list.
func ListLen(list Value) int { return len(list.list) }

// ListGet returns the element at idx, or ok=false if out of range.
func ListGet(list Value, idx int) (Value, bool) {
	if idx < 0 || idx >= len(list.list) {
		return nil, false
	}
	return list.list[idx], true
}

// ListSet overwrites the element at idx, returning ok=false if out of range.
func ListSet(list Value, idx int, v Value) bool {
	if idx < 0 || idx >= len(list.list) {
		return false
	}
	list.list[idx] = v
	return true
}

// ListPush appends v to the end of list.
func ListPush(list Value, v Value) {
	list.list = append(list.list, v)
}

// ListPop removes and returns the last element, or ok=false if empty.
func ListPop(list Value) (Value, bool) {
	n := len(list.list)
	if n == 0 {
		return nil, false
	}
	v := list.list[n-1]
	list.list = list.list[:n-1]
	return v, true
}

// ListRemove deletes the element at idx, shifting later elements down.
// Returns ok=false if out of range.
func ListRemove(list Value, idx int) (Value, bool) {
	if idx < 0 || idx >= len(list.list) {
		return nil, false
	}
	v := list.list[idx]
	list.list = append(list.list[:idx], list.list[idx+1:]...)
	return v, true
}

// ListInsert inserts v at idx, shifting later elements up. idx == len(list)
// appends. Returns ok=false if idx is out of [0, len] range.
func ListInsert(list Value, idx int, v Value) bool {
	n := len(list.list)
	if idx < 0 || idx > n {
		return false
	}
	list.list = append(list.list, nil)
	copy(list.list[idx+1:], list.list[idx:n])
	list.list[idx] = v
	return true
}
