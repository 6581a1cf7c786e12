// Package history keeps a SQLite log of completed translations so earlier
// results can be listed and searched with the history command.
package history
