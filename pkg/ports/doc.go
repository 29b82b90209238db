/*
Package ports defines the driven ports (interfaces) of the toolkit.

These interfaces decouple composition and the outer surfaces (CLI, HTTP, MCP) from
the storage backends.

# Key Interfaces

  - TransducerStore: persists named transducers (memory, file or Redis).
*/
package ports
