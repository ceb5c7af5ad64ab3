// Package chain provides a fluent wrapper around rx.Source for building
// pipelines step by step instead of nesting operator calls.
//
// Key operations:
//   - From/FromValues: begin a chain from a source or literal values
//   - Then: apply any rx.Operator, possibly changing the element type
//   - Pipe: apply several type-preserving operators
//   - ThenTry: call a function (U, error) and turn the error into Throw
//   - Map: transform every value (T -> U)
//   - Ensure: run side effects on every value without changing the stream
//   - Finally: subscribe with handlers and get the subscription back
//   - Drain: collect a synchronous chain into a slice
package chain
