package store

import "sync"

// Observable holds a value and notifies subscribers after every write.
// Subscribers run on the writing goroutine, outside the lock, in subscription order.
type Observable[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func NewObservable[T any](value T) *Observable[T] {
	return &Observable[T]{value: value}
}

func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	o.value = value
	subs := append([]subscriber[T](nil), o.subs...)
	o.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Update applies fn to the current value and stores the result as one write.
func (o *Observable[T]) Update(fn func(T) T) {
	o.mu.Lock()
	o.value = fn(o.value)
	value := o.value
	subs := append([]subscriber[T](nil), o.subs...)
	o.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (o *Observable[T]) Subscribe(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			for i, s := range o.subs {
				if s.id == id {
					o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// watch subscribes fn to every change of o, ignoring the value.
func watch[T any](o *Observable[T], fn func()) func() {
	return o.Subscribe(func(T) { fn() })
}

// unsubscribeAll combines several unsubscribe functions into one.
func unsubscribeAll(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}
