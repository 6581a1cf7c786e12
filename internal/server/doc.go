// Package server exposes the translation pipeline over HTTP for the serve
// command.
package server
