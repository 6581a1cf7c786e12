// Package processor contains the command level logic of lingohop. It wires
// the configured translator backend, the translation pipeline and the history
// store together and implements the single text, batch, introspection and
// serve modes of the CLI.
package processor
