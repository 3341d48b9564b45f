/*
Package ports defines the driven ports (interfaces) of the automata library.

These interfaces decouple commands and adapters from the places definitions
live, so the same code runs definitions from a Loam repository, a directory of
JSON files or Redis.

# Key Interfaces

  - DefinitionLoader: read-only access to definitions (e.g., from Loam).
  - DefinitionStore: read-write persistence of definitions.
*/
package ports
