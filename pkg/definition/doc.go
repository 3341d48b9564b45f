/*
Package definition reads and writes automaton definition files.

A definition is a YAML or JSON document:

	name: ends-in-x
	alphabet: [x, y]
	start: 1
	accept: [2]
	transitions:
	  - [2, 1]
	  - [2, 1]

Stack automata use {state, pop, push} cells instead of integers. An empty
pop or push, or the epsilon symbol Ɛ, leaves the stack untouched:

	alphabet: [a, b, "0", Ɛ]
	transitions:
	  - [{state: 1}, {state: 1}, {state: 1}, {state: 2}]
	  - [{state: 2, push: a}, {state: 2, push: b}, {state: 2}, {state: 3}]

The kind is inferred from the cells unless the document sets it explicitly.
*/
package definition
