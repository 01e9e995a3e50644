// Package expr implements the ${{ ... }} reference language embedded in step
// input values.
//
// # Grammar
//
// A value is one of three things:
//
//   - An opaque literal: any non-string, or a string with no ${{ marker.
//     Literals pass through resolution untouched.
//   - A full expression: the entire string is a single ${{ ... }} wrapper.
//     The referenced value is returned with its native type intact, so a
//     number stays a number and an object stays an object.
//   - An inline interpolation: a string mixing literal text with one or more
//     ${{ ... }} fragments. Each fragment is resolved, coerced to text, and
//     substituted in place; the result is always a string.
//
// Two reference forms exist, and nothing else: steps.<N>.output with an
// optional dot path, and variables.<name>. There are no operators, calls,
// or literals inside an expression.
//
// # Absence
//
// Resolution never fails. A reference to a step that has not run, a variable
// never set, an unparseable expression body, or a path that walks into null
// or missing data all yield absent. An absent full expression removes its
// key from the enclosing map (or nulls its slice slot); an absent inline
// fragment renders as the empty string. Whether absence is an error is the
// input-shape validator's call, not the resolver's.
package expr
