/*
Package domain contains the shared vocabulary of the fsnt toolkit.

It holds the sentinel errors that every layer wraps and tests against, and the
composition lifecycle events and hooks used by observability adapters. The package
has no knowledge of storage or transport, following Hexagonal Architecture principles.

# Error Kinds

  - Configuration: ErrTooManyGlueTapes, ErrUnknownTape, ErrDuplicateGlue, ErrDefinitionConflict.
  - Dimension: ErrDimensionMismatch, ErrTapeIndex, ErrUnknownState.
  - Resource: ErrResourceExhausted, raised only when a ceiling is configured.
  - Storage: ErrTransducerNotFound, ErrMalformedInput.
*/
package domain
