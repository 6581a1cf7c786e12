// Package translation runs text through a chain of installed translation
// packages. A route expression such as "en:es:de" names the languages to pass
// through; two codes let the language graph pick the shortest chain. Each hop
// loads the package tokenizer, hands the tokens to the translation delegate
// and normalizes the decoded text before feeding it to the next hop.
package translation
