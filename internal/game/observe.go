package game

// Observers is a set of change listeners. It is not synchronized; the owning
// session guards it with its own mutex and calls the listeners returned by
// List after unlocking.
type Observers[T any] struct {
	next int
	fns  map[int]func(T)
	ids  []int
}

// Add registers fn and returns its id.
func (o *Observers[T]) Add(fn func(T)) int {
	if o.fns == nil {
		o.fns = make(map[int]func(T))
	}
	o.next++
	o.fns[o.next] = fn
	o.ids = append(o.ids, o.next)
	return o.next
}

// Remove unregisters the listener with the given id.
func (o *Observers[T]) Remove(id int) {
	if _, ok := o.fns[id]; !ok {
		return
	}
	delete(o.fns, id)
	for i, x := range o.ids {
		if x == id {
			o.ids = append(o.ids[:i], o.ids[i+1:]...)
			break
		}
	}
}

// List returns the listeners in registration order.
func (o *Observers[T]) List() []func(T) {
	out := make([]func(T), 0, len(o.ids))
	for _, id := range o.ids {
		out = append(out, o.fns[id])
	}
	return out
}

// Notify calls every listener in fns with v.
func Notify[T any](fns []func(T), v T) {
	for _, fn := range fns {
		fn(v)
	}
}
