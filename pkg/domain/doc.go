/*
Package domain contains the core models of the automata toolkit.

It defines the automaton itself, its transition cells, the trace produced by a
run and the typed errors shared by the validator, the executors and the
compiler. The package is pure: no I/O, no persistence, no logging.

# Key Entities

  - Automaton: alphabet, start state, accept set and a transition table of Cells.
  - Cell: either Plain(target) for deterministic automata or StackOp(target, pop, push)
    for the stack variant. The kind is fixed when the automaton is built.
  - Step: one trace record (from, symbol, to, stack snapshot).
  - Result: the verdict of a run plus its trace.

State indices are 1-relative everywhere: row i of the table describes state i+1.
*/
package domain
