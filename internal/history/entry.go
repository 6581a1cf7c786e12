package history

import "codeberg.org/snonux/lingohop/internal/translation"

// EntryFor builds the history entry of a finished translation
func EntryFor(result *translation.Result, backend string) Entry {
	pkgs := make([]string, 0, len(result.Hops))
	for _, hop := range result.Hops {
		pkgs = append(pkgs, hop.Package)
	}

	return Entry{
		Input:    result.Input,
		Output:   result.Text,
		Route:    result.Route,
		Packages: pkgs,
		Backend:  backend,
	}
}
