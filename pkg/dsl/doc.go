/*
Package dsl provides a fluent builder for writing automata in Go.

It is an alternative to YAML or JSON definition files, useful for tests and
for automata generated at run time.

Example usage:

	package main

	import (
		"github.com/aretw0/automata/pkg/dsl"
	)

	func main() {
		// Accepts strings over {x, y} ending in x.
		endsInX, err := dsl.New("xy").
			Named("ends-in-x").
			Accept(2).
			Row(2, 1).
			Row(2, 1).
			Build()

		// A stack row; "" leaves the stack untouched.
		pusher, err := dsl.New("aƐ").
			Accept(1).
			StackRow(dsl.Op(1, "", "a"), dsl.Op(1, "a", "")).
			Build()
	}
*/
package dsl
