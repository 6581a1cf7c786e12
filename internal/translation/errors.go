package translation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRoute is returned for route expressions with empty codes or
	// fewer than two languages.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrEmptyInput is returned when there is no text to translate.
	ErrEmptyInput = errors.New("no input text")
)

// NoRouteError reports that no chain of packages connects two languages.
type NoRouteError struct {
	From string
	To   string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no translation route from %s to %s", e.From, e.To)
}

// MissingPackageError reports a hop of an explicit chain without an
// installed package.
type MissingPackageError struct {
	Hop  int
	From string
	To   string
}

func (e *MissingPackageError) Error() string {
	return fmt.Sprintf("hop %d: no package installed for %s -> %s", e.Hop, e.From, e.To)
}

// ModelLoadError reports that the tokenizer or model of a package could not
// be loaded.
type ModelLoadError struct {
	Hop     int
	Package string
	Err     error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("hop %d: failed to load package %s: %v", e.Hop, e.Package, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// HopError reports a failed call to the translation delegate.
type HopError struct {
	Hop     int
	From    string
	To      string
	Package string
	Err     error
}

func (e *HopError) Error() string {
	return fmt.Sprintf("hop %d (%s -> %s, package %s): translation failed: %v", e.Hop, e.From, e.To, e.Package, e.Err)
}

func (e *HopError) Unwrap() error {
	return e.Err
}

// TranslationFailedError reports that the chain ran but produced no text.
type TranslationFailedError struct {
	Route Route
}

func (e *TranslationFailedError) Error() string {
	return fmt.Sprintf("translation via %s produced no text", e.Route)
}
