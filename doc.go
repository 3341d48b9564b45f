/*
Package automata simulates finite automata and synthesizes them from a small
regular-expression notation.

Two kinds of automata are supported. Deterministic automata follow a total
transition table over states and alphabet symbols. Stack automata add a
last-in/first-out stack and run one fixed two-phase protocol suited to
palindrome recognition: push during the first half of the input, pop during
the second, with the middle symbol of odd-length input read through a pivot
column.

# Concept

An automaton is data: an alphabet, a 1-relative start state, a set of accept
states and a transition table with one row per state and one column per
symbol. Definitions are loaded from YAML or JSON files, from a document
repository, from a definition store, built with the dsl package, or compiled
from a pattern. Every automaton is validated before it can run, and a run
returns a verdict together with the trace of every transition taken.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/automata"
	)

	func main() {
		m, err := automata.Compile("a*b")
		if err != nil {
			log.Fatal(err)
		}

		res, err := m.Run(context.Background(), "aab")
		if err != nil {
			log.Fatal(err)
		}

		for _, step := range res.Trace {
			fmt.Println(step)
		}
		fmt.Println(res.Verdict) // Accept
	}

Execution errors (unknown symbols, stack mismatches, configuration errors)
are returned as errors and are never folded into a Reject verdict.
*/
package automata
