/*
Package domain holds the core value types of the flowrunner engine: the
validated state-machine model, path definitions (concrete and inherited),
step results, and the typed errors shared across packages.

Everything here is plain data. The model is built once by the compiler and is
immutable afterwards; it can be shared read-only across concurrent engine runs.
*/
package domain
