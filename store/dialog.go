package store

// Dialog is an open flag plus the payload the dialog needs while it is open.
// Closing a dialog resets the payload to its zero value.
type Dialog[T any] struct {
	Open    *Observable[bool]
	Payload *Observable[T]
}

func newDialog[T any]() *Dialog[T] {
	var zero T
	return &Dialog[T]{
		Open:    NewObservable(false),
		Payload: NewObservable(zero),
	}
}

// Show stores payload and then reveals the dialog, so subscribers of Open see the payload.
func (d *Dialog[T]) Show(payload T) {
	d.Payload.Set(payload)
	d.Open.Set(true)
}

func (d *Dialog[T]) Hide() {
	var zero T
	d.Open.Set(false)
	d.Payload.Set(zero)
}

func (d *Dialog[T]) IsOpen() bool {
	return d.Open.Get()
}

func (d *Dialog[T]) Value() T {
	return d.Payload.Get()
}

func (d *Dialog[T]) onChange(fn func()) func() {
	return unsubscribeAll(watch(d.Open, fn), watch(d.Payload, fn))
}
