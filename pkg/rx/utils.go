package rx

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// GetErrors flattens an aggregate error (anything implementing
// Unwrap() []error) into its parts.
func GetErrors(err error) []error {
	if IsNil(err) {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

// PanicError wraps a recovered panic value that was not itself an error.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("rx: recovered panic: %v", e.Value)
}

// try runs f and converts a panic into an error.
func try(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = RecoveredError(r)
		}
	}()
	f()
	return nil
}

// RecoveredError turns a value returned by recover into an error. Errors
// pass through unchanged; anything else becomes a *PanicError carrying the
// current stack.
func RecoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r, Stack: debug.Stack()}
}

// dispose disposes d and hands any teardown error to the async channel.
func dispose(d Disposable) {
	if d == nil {
		return
	}
	if err := d.Dispose(); err != nil {
		ReportError(err)
	}
}

func removeOnce[T comparable](list []T, item T) []T {
	for i, v := range list {
		if v == item {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
