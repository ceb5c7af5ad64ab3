package rx

// Disposable is a node in a resource-lifetime tree. Disposing a node runs
// its teardown and then disposes every child it owns.
type Disposable interface {
	// Active reports whether the node has not been disposed yet.
	Active() bool
	// Dispose tears the node down. Calls after the first are no-ops.
	Dispose() error
	// Add takes ownership of child. If the node is already disposed the
	// child is disposed immediately.
	Add(child Disposable)
	// Remove releases ownership of child without disposing it.
	Remove(child Disposable)
}

type disposable struct {
	active   bool
	teardown func()
	children []Disposable
}

// NewDisposable creates an active node. teardown may be nil; it runs once,
// at the start of disposal and before the children are disposed.
func NewDisposable(teardown func()) Disposable {
	return newDisposable(teardown)
}

func newDisposable(teardown func()) *disposable {
	return &disposable{
		active:   true,
		teardown: teardown,
	}
}

func (d *disposable) Active() bool {
	return d.active
}

func (d *disposable) Add(child Disposable) {
	if child == nil || child == Disposable(d) {
		return
	}
	if !d.active {
		dispose(child)
		return
	}
	d.children = append(d.children, child)
}

func (d *disposable) Remove(child Disposable) {
	if !d.active {
		return
	}
	d.children = removeOnce(d.children, child)
}

func (d *disposable) Dispose() error {
	if !d.active {
		return nil
	}
	d.active = false

	var errs []error

	if teardown := d.teardown; teardown != nil {
		d.teardown = nil
		if err := try(teardown); err != nil {
			errs = append(errs, err)
		}
	}

	// Children added from here on are disposed by Add directly.
	children := d.children
	d.children = nil

	for _, child := range children {
		var childErr error
		if err := try(func() { childErr = child.Dispose() }); err != nil {
			errs = append(errs, err)
		}
		if childErr != nil {
			errs = appendFlat(errs, childErr)
		}
	}

	if len(errs) > 0 {
		return &DisposalError{Errors: errs}
	}
	return nil
}
