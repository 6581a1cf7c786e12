// Package graph builds a directed graph of installed translation packages
// and finds the shortest chain of packages between two languages.
package graph
